package constants

// Environment

const (
	EnvVarPrefix           = "WHL" // prefixed for environment variables owned by this tool
	EnvVarProcessedBucket  = "S3_PROCESSED_BUCKET"
	EnvVarRegion           = "AWS_REGION"
	EnvVarTwelveFactorMode = EnvVarPrefix + "_12FACTOR_MODE"
	EnvVarTimestamp        = EnvVarPrefix + "_TIMESTAMP"
	EnvVarSecretName       = EnvVarPrefix + "_SECRET_NAME"
	EnvVarSchema           = EnvVarPrefix + "_SCHEMA"
	EnvVarBatchSize        = EnvVarPrefix + "_BATCH_SIZE"
	EnvVarTablesFile       = EnvVarPrefix + "_TABLES_FILE"
	EnvVarLogLevel         = EnvVarPrefix + "_LOG_LEVEL"
	EnvVarStackDump        = EnvVarPrefix + "_STACK_DUMP"
	TwelveFactorModeLambda = "lambda"
)

// Loader

const (
	ServiceName               = "whload"
	DefaultRegion             = "eu-west-2"
	DefaultSecretName         = "warehouse_secrets"
	DefaultSchema             = "public"
	DefaultLogLevel           = "info"
	ObjectKeyExt              = ".parquet"
	StatusCodeOK              = 200
	InsertBatchSizeDefault    = 1000
	PostgresMaxBindParameters = 65535
	PandasIndexColumnPrefix   = "__index_level_"
	ConnectionTypePostgres    = "postgres"
	ConnectionTypeS3          = "s3"
)
