package infra

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// BackendStack holds the identity pool whose tokens the API authorizer accepts.
type BackendStack struct {
	awscdk.Stack
	UserPool       awscognito.UserPool
	UserPoolClient awscognito.UserPoolClient
}

// NewBackendStack declares a Cognito user pool with email sign-in, a public
// client and a hosted-UI domain.
func NewBackendStack(scope constructs.Construct, id string, props *awscdk.StackProps) *BackendStack {
	stack := awscdk.NewStack(scope, jsii.String(id), props)

	pool := awscognito.NewUserPool(stack, jsii.String("TodoUserPool"), &awscognito.UserPoolProps{
		SelfSignUpEnabled: jsii.Bool(true),
		SignInAliases:     &awscognito.SignInAliases{Email: jsii.Bool(true)},
		AutoVerify:        &awscognito.AutoVerifiedAttrs{Email: jsii.Bool(true)},
		AccountRecovery:   awscognito.AccountRecovery_EMAIL_ONLY,
	})

	client := awscognito.NewUserPoolClient(stack, jsii.String("TodoUserPoolClient"), &awscognito.UserPoolClientProps{
		UserPool:       pool,
		GenerateSecret: jsii.Bool(false),
	})

	awscognito.NewCfnUserPoolDomain(stack, jsii.String("UserPoolDomain"), &awscognito.CfnUserPoolDomainProps{
		Domain:     jsii.String("todo-app-" + strings.ToLower(*stack.StackName())),
		UserPoolId: pool.UserPoolId(),
	})

	awscdk.NewCfnOutput(stack, jsii.String("UserPoolId"), &awscdk.CfnOutputProps{Value: pool.UserPoolId()})
	awscdk.NewCfnOutput(stack, jsii.String("UserPoolClientId"), &awscdk.CfnOutputProps{Value: client.UserPoolClientId()})

	return &BackendStack{Stack: stack, UserPool: pool, UserPoolClient: client}
}
