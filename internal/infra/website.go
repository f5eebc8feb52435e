package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// WebsiteProps configures static hosting.
type WebsiteProps struct {
	// FrontendPath is the built frontend directory. Empty skips the deployment.
	FrontendPath string
}

// Website is a private bucket served through CloudFront.
type Website struct {
	constructs.Construct
	WebsiteBucket awss3.Bucket
	Distribution  awscloudfront.Distribution
}

// NewWebsite declares the bucket, origin access identity, distribution and
// optional asset deployment.
func NewWebsite(scope constructs.Construct, id string, props *WebsiteProps) *Website {
	c := constructs.NewConstruct(scope, jsii.String(id))

	bucket := awss3.NewBucket(c, jsii.String("TodoFrontendBucket"), &awss3.BucketProps{
		PublicReadAccess:  jsii.Bool(false),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		RemovalPolicy:     awscdk.RemovalPolicy_DESTROY,
		AutoDeleteObjects: jsii.Bool(true),
	})

	oai := awscloudfront.NewOriginAccessIdentity(c, jsii.String("CloudFrontOAI"), &awscloudfront.OriginAccessIdentityProps{
		Comment: jsii.String("OAI for Todo App CloudFront distribution"),
	})
	bucket.GrantRead(oai, nil)
	bucket.AddToResourcePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:    jsii.Strings("s3:GetObject"),
		Resources:  &[]*string{bucket.ArnForObjects(jsii.String("*"))},
		Principals: &[]awsiam.IPrincipal{awsiam.NewCanonicalUserPrincipal(oai.CloudFrontOriginAccessIdentityS3CanonicalUserId())},
	}))

	// SPA routing: unknown paths fall back to index.html.
	spaFallback := func(status float64) *awscloudfront.ErrorResponse {
		return &awscloudfront.ErrorResponse{
			HttpStatus:         jsii.Number(status),
			ResponseHttpStatus: jsii.Number(200),
			ResponsePagePath:   jsii.String("/index.html"),
			Ttl:                awscdk.Duration_Minutes(jsii.Number(0)),
		}
	}

	distribution := awscloudfront.NewDistribution(c, jsii.String("TodoFrontendCDN"), &awscloudfront.DistributionProps{
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.NewS3Origin(bucket, &awscloudfrontorigins.S3OriginProps{
				OriginAccessIdentity: oai,
			}),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_ALL(),
			CachedMethods:        awscloudfront.CachedMethods_CACHE_GET_HEAD_OPTIONS(),
			CachePolicy:          awscloudfront.CachePolicy_CACHING_OPTIMIZED(),
			OriginRequestPolicy:  awscloudfront.OriginRequestPolicy_CORS_S3_ORIGIN(),
		},
		ErrorResponses:    &[]*awscloudfront.ErrorResponse{spaFallback(403), spaFallback(404)},
		DefaultRootObject: jsii.String("index.html"),
	})

	if props != nil && props.FrontendPath != "" {
		awss3deployment.NewBucketDeployment(c, jsii.String("DeployFrontend"), &awss3deployment.BucketDeploymentProps{
			Sources:           &[]awss3deployment.ISource{awss3deployment.Source_Asset(jsii.String(props.FrontendPath), nil)},
			DestinationBucket: bucket,
			Distribution:      distribution,
			DistributionPaths: jsii.Strings("/*"),
			Prune:             jsii.Bool(false),
		})
	}

	awscdk.NewCfnOutput(c, jsii.String("CloudFrontURL"), &awscdk.CfnOutputProps{
		Value:       jsii.String("https://" + *distribution.DistributionDomainName()),
		ExportName:  jsii.String("TodoAppCloudFrontURL"),
		Description: jsii.String("The URL of the CloudFront distribution for the Todo App"),
	})
	awscdk.NewCfnOutput(c, jsii.String("CloudFrontDistributionId"), &awscdk.CfnOutputProps{
		Value:       distribution.DistributionId(),
		ExportName:  jsii.String("TodoAppCloudFrontDistributionId"),
		Description: jsii.String("The ID of the CloudFront distribution for the Todo App"),
	})

	return &Website{Construct: c, WebsiteBucket: bucket, Distribution: distribution}
}

// URL is the HTTPS origin of the distribution.
func (w *Website) URL() *string {
	return jsii.String("https://" + *w.Distribution.DistributionDomainName())
}
