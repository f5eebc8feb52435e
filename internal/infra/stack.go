// Package infra declares the deployment as AWS CDK constructs: the todos
// table, the Cognito user pool, the REST API with its Lambda handlers, and the
// CloudFront-hosted frontend.
package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// AppStackProps configures the application stack.
type AppStackProps struct {
	awscdk.StackProps
	UserPool     awscognito.IUserPool
	AssetPath    string
	FrontendPath string
	// AllowedOrigin overrides the CORS origin. Empty means the CloudFront URL.
	AllowedOrigin string
}

// AppStack holds the table, API and website.
type AppStack struct {
	awscdk.Stack
	Database *Database
	API      *API
	Website  *Website
}

// NewAppStack declares the runtime resources.
func NewAppStack(scope constructs.Construct, id string, props *AppStackProps) *AppStack {
	stack := awscdk.NewStack(scope, jsii.String(id), &props.StackProps)

	db := NewDatabase(stack, "Database")
	site := NewWebsite(stack, "Website", &WebsiteProps{FrontendPath: props.FrontendPath})

	origin := site.URL()
	if props.AllowedOrigin != "" {
		origin = jsii.String(props.AllowedOrigin)
	}
	api := NewAPI(stack, "Api", &APIProps{
		UserPool:      props.UserPool,
		Database:      db,
		AssetPath:     props.AssetPath,
		AllowedOrigin: origin,
	})

	return &AppStack{Stack: stack, Database: db, API: api, Website: site}
}
