package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Ledger struct {
		// Person whose CNY expenses are tracked per category.
		PartnerPersonID int64 `mapstructure:"partner_person_id"`
		// Dashboard shows at most this many balance rows.
		BalanceLimit int `mapstructure:"balance_limit"`
	} `mapstructure:"ledger"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Ledger.BalanceLimit <= 0 {
		c.Ledger.BalanceLimit = 10
	}
	return c, nil
}
