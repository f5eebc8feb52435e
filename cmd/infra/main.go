// Infra synthesizes the CloudFormation templates: cdk synth --app "go run ./cmd/infra"
package main

import (
	"os"

	"todo-app/internal/infra"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

func main() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)
	var env *awscdk.Environment
	if account, region := os.Getenv("CDK_DEFAULT_ACCOUNT"), os.Getenv("CDK_DEFAULT_REGION"); account != "" && region != "" {
		env = &awscdk.Environment{Account: jsii.String(account), Region: jsii.String(region)}
	}

	backend := infra.NewBackendStack(app, "TodoAppBackendStack", &awscdk.StackProps{Env: env})
	infra.NewAppStack(app, "TodoAppStack", &infra.AppStackProps{
		StackProps:    awscdk.StackProps{Env: env},
		UserPool:      backend.UserPool,
		AssetPath:     getEnv("LAMBDA_ASSET_PATH", "build/lambda"),
		FrontendPath:  getEnv("FRONTEND_BUILD_PATH", "../frontend/build"),
		AllowedOrigin: os.Getenv("CORS_ALLOWED_ORIGIN"),
	})

	app.Synth(nil)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
