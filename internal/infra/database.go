package infra

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Database declares the todos table: partition key userId, sort key todoId.
type Database struct {
	constructs.Construct
	TodosTable awsdynamodb.Table
}

// NewDatabase adds the table and exports its name.
func NewDatabase(scope constructs.Construct, id string) *Database {
	c := constructs.NewConstruct(scope, jsii.String(id))

	table := awsdynamodb.NewTable(c, jsii.String("TodosTable"), &awsdynamodb.TableProps{
		PartitionKey:  &awsdynamodb.Attribute{Name: jsii.String("userId"), Type: awsdynamodb.AttributeType_STRING},
		SortKey:       &awsdynamodb.Attribute{Name: jsii.String("todoId"), Type: awsdynamodb.AttributeType_STRING},
		BillingMode:   awsdynamodb.BillingMode_PAY_PER_REQUEST,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(c, jsii.String("TodosTableNameOutput"), &awscdk.CfnOutputProps{
		Value:      table.TableName(),
		ExportName: jsii.String("TodosTableName"),
	})

	return &Database{Construct: c, TodosTable: table}
}

func (d *Database) GrantReadAccess(grantee awsiam.IGrantable) {
	d.TodosTable.GrantReadData(grantee)
}

func (d *Database) GrantWriteAccess(grantee awsiam.IGrantable) {
	d.TodosTable.GrantWriteData(grantee)
}

// GrantReadWriteAccess is needed by update, which reads back ALL_NEW attributes.
func (d *Database) GrantReadWriteAccess(grantee awsiam.IGrantable) {
	d.TodosTable.GrantReadWriteData(grantee)
}
