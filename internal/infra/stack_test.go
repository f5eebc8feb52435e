package infra

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/require"
)

// The CDK bindings run on a Node.js jsii kernel.
func requireNode(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not found; skipping CDK synthesis tests")
	}
}

func synth(t *testing.T) (backend, app assertions.Template) {
	t.Helper()
	requireNode(t)

	assets := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assets, "bootstrap"), []byte("#!/bin/sh\n"), 0o755))

	cdkApp := awscdk.NewApp(nil)
	b := NewBackendStack(cdkApp, "TestBackend", nil)
	a := NewAppStack(cdkApp, "TestApp", &AppStackProps{
		UserPool:      b.UserPool,
		AssetPath:     assets,
		AllowedOrigin: "https://todo.example.com",
	})
	return assertions.Template_FromStack(b.Stack, nil), assertions.Template_FromStack(a.Stack, nil)
}

func TestTableKeys(t *testing.T) {
	_, app := synth(t)
	app.ResourceCountIs(jsii.String("AWS::DynamoDB::Table"), jsii.Number(1))
	app.HasResourceProperties(jsii.String("AWS::DynamoDB::Table"), &map[string]interface{}{
		"KeySchema": []interface{}{
			map[string]interface{}{"AttributeName": "userId", "KeyType": "HASH"},
			map[string]interface{}{"AttributeName": "todoId", "KeyType": "RANGE"},
		},
		"BillingMode": "PAY_PER_REQUEST",
	})
}

func TestUserPool(t *testing.T) {
	backend, _ := synth(t)
	backend.ResourceCountIs(jsii.String("AWS::Cognito::UserPool"), jsii.Number(1))
	backend.HasResourceProperties(jsii.String("AWS::Cognito::UserPoolClient"), &map[string]interface{}{
		"GenerateSecret": false,
	})
	backend.ResourceCountIs(jsii.String("AWS::Cognito::UserPoolDomain"), jsii.Number(1))
}

func TestRoutesAreCognitoAuthorized(t *testing.T) {
	_, app := synth(t)
	for _, method := range []string{"POST", "GET", "PUT", "DELETE"} {
		app.HasResourceProperties(jsii.String("AWS::ApiGateway::Method"), &map[string]interface{}{
			"HttpMethod":        method,
			"AuthorizationType": "COGNITO_USER_POOLS",
		})
	}
	app.ResourceCountIs(jsii.String("AWS::ApiGateway::Authorizer"), jsii.Number(1))
}

func TestFunctionsReceiveTableAndOperation(t *testing.T) {
	_, app := synth(t)
	for _, op := range []string{"create", "list", "update", "delete"} {
		app.HasResourceProperties(jsii.String("AWS::Lambda::Function"), &map[string]interface{}{
			"Handler": "bootstrap",
			"Environment": map[string]interface{}{
				"Variables": assertions.Match_ObjectLike(&map[string]interface{}{
					"TODO_OPERATION":      op,
					"CORS_ALLOWED_ORIGIN": "https://todo.example.com",
				}),
			},
		})
	}
}

func TestWebsite(t *testing.T) {
	_, app := synth(t)
	app.HasResourceProperties(jsii.String("AWS::CloudFront::Distribution"), &map[string]interface{}{
		"DistributionConfig": assertions.Match_ObjectLike(&map[string]interface{}{
			"DefaultRootObject": "index.html",
		}),
	})
	app.HasResourceProperties(jsii.String("AWS::S3::Bucket"), &map[string]interface{}{
		"PublicAccessBlockConfiguration": map[string]interface{}{
			"BlockPublicAcls":       true,
			"BlockPublicPolicy":     true,
			"IgnorePublicAcls":      true,
			"RestrictPublicBuckets": true,
		},
	})
}
