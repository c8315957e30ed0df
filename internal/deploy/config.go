package deploy

import "strings"

// Tier selects the resource limits baked into the rendered descriptor.
type Tier string

const (
	TierDev  Tier = "dev"
	TierProd Tier = "prod"
)

// Ports published when the operator accepts the defaults.
const (
	DefaultHTTPPort = "8080"
	DefaultMQTTPort = "1883"
	DefaultCoAPPort = "5683"
)

const (
	devJavaOpts  = "-Xms256m -Xmx512m"
	devPoolSize  = "20"
	prodJavaOpts = "-Xms512m -Xmx1024m"
	prodPoolSize = "50"
)

// Config is built once per run from operator input (or defaults) and consumed
// to render the descriptor and the firewall rules.
type Config struct {
	HTTPPort   string
	MQTTPort   string
	CoAPPort   string
	Tier       Tier
	JavaOpts   string
	DBPoolSize string
}

// NewConfig fills blanks with defaults and derives the tier resource limits.
func NewConfig(httpPort, mqttPort, coapPort, tier string) Config {
	cfg := Config{
		HTTPPort: orDefault(httpPort, DefaultHTTPPort),
		MQTTPort: orDefault(mqttPort, DefaultMQTTPort),
		CoAPPort: orDefault(coapPort, DefaultCoAPPort),
		Tier:     ResolveTier(tier),
	}
	cfg.JavaOpts, cfg.DBPoolSize = cfg.Tier.Resources()
	return cfg
}

// ResolveTier is case-insensitive on input; anything that is not "prod",
// including blank, selects the development tier.
func ResolveTier(input string) Tier {
	if strings.EqualFold(strings.TrimSpace(input), string(TierProd)) {
		return TierProd
	}
	return TierDev
}

// Resources returns the JVM options and database pool size for the tier.
func (t Tier) Resources() (javaOpts, dbPoolSize string) {
	if t == TierProd {
		return prodJavaOpts, prodPoolSize
	}
	return devJavaOpts, devPoolSize
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
