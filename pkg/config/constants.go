package config

const (
	EnvPrefix = "SURVSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DeliveryModeLocal = "local"
	DeliveryModeFTP   = "ftp"

	EnvDBDSN               = "SURVSHOP_DB_DSN"
	EnvDeliveryPlayerPath  = "SURVSHOP_DELIVERY_PLAYER_PATH"
	EnvDeliveryBankingPath = "SURVSHOP_DELIVERY_BANKING_PATH"
	EnvFTPHost             = "SURVSHOP_FTP_HOST"
)
