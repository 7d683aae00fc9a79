package cmd

type Config struct {
	HTTPPort                string
	DBHost                  string
	DBPort                  string
	DBUser                  string
	DBPassword              string
	DBName                  string
	DBSslMode               string
	ShippingPolicy          string
	DefaultShippingModifier string
	CancelableStates        string
	StaffEmail              string
}
