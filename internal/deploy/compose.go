package deploy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Fixed topology of the generated descriptor. Only the three published ports
// and the tier-derived environment vary between runs.
const (
	composeVersion = "3.5"
	appImage       = "thingsboard/tb-postgres:latest"
	dbImage        = "postgres:12"

	dbName     = "thingsboard"
	dbUser     = "tb_user"
	dbPassword = "tb_password"

	internalHTTPPort = "8080"
	internalMQTTPort = "1883"
	internalCoAPPort = "5683"

	dataVolume = "./data/db:/var/lib/postgresql/data"

	// NetworkName is the Docker network created for the stack.
	NetworkName = "thingsboard_net"
)

type composeFile struct {
	Version  string             `yaml:"version"`
	Services map[string]service `yaml:"services"`
}

type service struct {
	Image         string            `yaml:"image"`
	ContainerName string            `yaml:"container_name"`
	Ports         []string          `yaml:"ports,omitempty"`
	Environment   map[string]string `yaml:"environment,omitempty"`
	DependsOn     []string          `yaml:"depends_on,omitempty"`
	Volumes       []string          `yaml:"volumes,omitempty"`
}

// RenderDescriptor produces the docker-compose document for the stack: the
// ThingsBoard application plus its PostgreSQL datastore.
func RenderDescriptor(cfg Config) ([]byte, error) {
	doc := composeFile{
		Version: composeVersion,
		Services: map[string]service{
			"tb": {
				Image:         appImage,
				ContainerName: "tb",
				Ports: []string{
					fmt.Sprintf("%s:%s", cfg.HTTPPort, internalHTTPPort),
					fmt.Sprintf("%s:%s", cfg.MQTTPort, internalMQTTPort),
					fmt.Sprintf("%s:%s/udp", cfg.CoAPPort, internalCoAPPort),
				},
				Environment: map[string]string{
					"TB_QUEUE_TYPE":                       "kafka",
					"SPRING_DATASOURCE_URL":               fmt.Sprintf("jdbc:postgresql://postgres:5432/%s", dbName),
					"SPRING_DATASOURCE_USERNAME":          dbUser,
					"SPRING_DATASOURCE_PASSWORD":          dbPassword,
					"SPRING_DATASOURCE_MAXIMUM_POOL_SIZE": cfg.DBPoolSize,
					"JAVA_OPTS":                           cfg.JavaOpts,
				},
				DependsOn: []string{"postgres"},
			},
			"postgres": {
				Image:         dbImage,
				ContainerName: "postgres",
				Environment: map[string]string{
					"POSTGRES_DB":       dbName,
					"POSTGRES_USER":     dbUser,
					"POSTGRES_PASSWORD": dbPassword,
				},
				Volumes: []string{dataVolume},
			},
		},
	}
	return yaml.Marshal(doc)
}
