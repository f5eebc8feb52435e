package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// APIProps wires the API to its collaborators.
type APIProps struct {
	UserPool awscognito.IUserPool
	Database *Database
	// AssetPath is a directory holding the compiled `bootstrap` of cmd/lambda.
	AssetPath string
	// AllowedOrigin is passed to the handlers' CORS decorator and preflight.
	AllowedOrigin *string
}

// API declares one Lambda function per operation behind a Cognito-authorized
// REST API.
type API struct {
	constructs.Construct
	Api       awsapigateway.RestApi
	ApiUrl    *string
	Functions map[string]awslambda.Function
}

// NewAPI adds the functions, routes and authorizer and exports the API URL.
func NewAPI(scope constructs.Construct, id string, props *APIProps) *API {
	c := constructs.NewConstruct(scope, jsii.String(id))
	code := awslambda.Code_FromAsset(jsii.String(props.AssetPath), nil)

	newFunction := func(name, operation string) awslambda.Function {
		return awslambda.NewFunction(c, jsii.String(name), &awslambda.FunctionProps{
			Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
			Architecture: awslambda.Architecture_ARM_64(),
			Handler:      jsii.String("bootstrap"),
			Code:         code,
			Environment: &map[string]*string{
				"TODOS_TABLE":         props.Database.TodosTable.TableName(),
				"TODO_OPERATION":      jsii.String(operation),
				"CORS_ALLOWED_ORIGIN": props.AllowedOrigin,
			},
		})
	}

	createFn := newFunction("CreateTodoFunction", "create")
	props.Database.GrantWriteAccess(createFn)

	listFn := newFunction("GetTodosFunction", "list")
	props.Database.GrantReadAccess(listFn)

	updateFn := newFunction("UpdateTodoFunction", "update")
	props.Database.GrantReadWriteAccess(updateFn)

	deleteFn := newFunction("DeleteTodoFunction", "delete")
	props.Database.GrantWriteAccess(deleteFn)

	api := awsapigateway.NewRestApi(c, jsii.String("TodoApi"), &awsapigateway.RestApiProps{
		RestApiName: jsii.String("Todo Service"),
		DefaultCorsPreflightOptions: &awsapigateway.CorsOptions{
			AllowOrigins:     &[]*string{props.AllowedOrigin},
			AllowMethods:     awsapigateway.Cors_ALL_METHODS(),
			AllowHeaders:     jsii.Strings("Content-Type", "Authorization", "X-Amz-Date", "X-Api-Key", "X-Amz-Security-Token"),
			AllowCredentials: jsii.Bool(*props.AllowedOrigin != "*"),
		},
	})

	authorizer := awsapigateway.NewCognitoUserPoolsAuthorizer(c, jsii.String("TodoAuthorizer"), &awsapigateway.CognitoUserPoolsAuthorizerProps{
		CognitoUserPools: &[]awscognito.IUserPool{props.UserPool},
	})
	methodOpts := &awsapigateway.MethodOptions{
		Authorizer:        authorizer,
		AuthorizationType: awsapigateway.AuthorizationType_COGNITO,
	}

	todos := api.Root().AddResource(jsii.String("todos"), nil)
	todos.AddMethod(jsii.String("POST"), awsapigateway.NewLambdaIntegration(createFn, nil), methodOpts)
	todos.AddMethod(jsii.String("GET"), awsapigateway.NewLambdaIntegration(listFn, nil), methodOpts)

	todoItem := todos.AddResource(jsii.String("{id}"), nil)
	todoItem.AddMethod(jsii.String("PUT"), awsapigateway.NewLambdaIntegration(updateFn, nil), methodOpts)
	todoItem.AddMethod(jsii.String("DELETE"), awsapigateway.NewLambdaIntegration(deleteFn, nil), methodOpts)

	awscdk.NewCfnOutput(c, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{
		Value:      api.Url(),
		ExportName: jsii.String("TodoApiUrl"),
	})

	return &API{
		Construct: c,
		Api:       api,
		ApiUrl:    api.Url(),
		Functions: map[string]awslambda.Function{
			"create": createFn,
			"list":   listFn,
			"update": updateFn,
			"delete": deleteFn,
		},
	}
}
