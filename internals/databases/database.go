// file: internals/databases/database.go
package database

import (
	"context"
	"log"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"galangdana_backend/internals/configs"
	auditModel "galangdana_backend/internals/features/audit/audit_logs/model"
	auditService "galangdana_backend/internals/features/audit/audit_logs/service"
	donationModel "galangdana_backend/internals/features/donations/donations/model"
	fundraiserModel "galangdana_backend/internals/features/donations/fundraisers/model"
	paymentModel "galangdana_backend/internals/features/donations/payments/model"
	"galangdana_backend/internals/store"
)

/* =========================================================
   Registry tabel Conditional Store (diisi sekali saat boot)
========================================================= */

var (
	Conn store.Conn
	Sink *auditService.TrailWriter

	Fundraisers *store.Table[fundraiserModel.Fundraiser]
	Donations   *store.Table[donationModel.Donation]
	Payments    *store.Table[paymentModel.Payment]
	AuditLogs   *store.Table[auditModel.AuditLog]
)

// ConnectDB membuat client DynamoDB dari env lalu meregistrasi tabel.
// DYNAMODB_ENDPOINT diisi untuk dynamodb-local saat develop.
func ConnectDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(configs.AWSRegion),
	}
	if configs.DynamoDBEndpoint != "" {
		// dynamodb-local tidak memvalidasi credential
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Fatalf("❌ Gagal load konfigurasi AWS: %v", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if configs.DynamoDBEndpoint != "" {
			o.BaseEndpoint = &configs.DynamoDBEndpoint
		}
	})

	if err := Init(store.NewDynamoConn(client)); err != nil {
		log.Fatalf("❌ Gagal registrasi tabel: %v", err)
	}
	log.Println("✅ DynamoDB terkoneksi & tabel terregistrasi.")
}

// Init meregistrasi seluruh TableSpec di atas Conn yang diberikan.
// Test memanggil ini dengan store.NewMemConn().
func Init(conn store.Conn) error {
	specs := map[string]store.TableSpec{
		"fundraisers": {
			Name:         tableName(configs.TableFundraisers, "fundraisers"),
			PartitionKey: fundraiserModel.ColFundraiserID,
		},
		"donations": {
			Name:         tableName(configs.TableDonations, "donations"),
			PartitionKey: donationModel.ColDonationFundraiserID,
			SortKey:      donationModel.ColDonationID,
		},
		"payments": {
			Name:         tableName(configs.TablePayments, "payments"),
			PartitionKey: paymentModel.ColPaymentDonationID,
			SortKey:      paymentModel.ColPaymentID,
		},
		"audit_logs": {
			Name:         tableName(configs.TableAuditLogs, "audit_logs"),
			PartitionKey: "audit_log_id",
		},
	}

	// Tabel audit dibuat tanpa sink supaya tulis audit tidak rekursif.
	auditTable, err := store.NewTable[auditModel.AuditLog](conn, specs["audit_logs"], nil)
	if err != nil {
		return err
	}
	sink := auditService.NewTrailWriter(auditTable)

	fundraisers, err := store.NewTable[fundraiserModel.Fundraiser](conn, specs["fundraisers"], sink)
	if err != nil {
		return err
	}
	donations, err := store.NewTable[donationModel.Donation](conn, specs["donations"], sink)
	if err != nil {
		return err
	}
	payments, err := store.NewTable[paymentModel.Payment](conn, specs["payments"], sink)
	if err != nil {
		return err
	}

	Conn = conn
	Sink = sink
	AuditLogs = auditTable
	Fundraisers = fundraisers
	Donations = donations
	Payments = payments
	return nil
}

// tableName: nama dari env, fallback default kalau LoadEnv belum jalan
// (test memanggil Init langsung tanpa LoadEnv).
func tableName(fromEnv, def string) string {
	if fromEnv != "" {
		return fromEnv
	}
	return def
}
