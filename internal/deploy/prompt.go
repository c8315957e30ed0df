package deploy

import (
	"github.com/AlecAivazis/survey/v2"
)

// Gather prompts the operator for the published ports and the environment
// tier, substituting defaults for blank answers.
func Gather() (Config, error) {
	qs := []*survey.Question{
		{
			Name:   "httpPort",
			Prompt: &survey.Input{Message: "HTTP port for ThingsBoard:", Default: DefaultHTTPPort},
		},
		{
			Name:   "mqttPort",
			Prompt: &survey.Input{Message: "MQTT port:", Default: DefaultMQTTPort},
		},
		{
			Name:   "coapPort",
			Prompt: &survey.Input{Message: "CoAP port:", Default: DefaultCoAPPort},
		},
		{
			Name: "tier",
			Prompt: &survey.Select{
				Message: "Choose environment:",
				Options: []string{string(TierDev), string(TierProd)},
				Default: string(TierDev),
			},
		},
	}

	answers := struct {
		HTTPPort string `survey:"httpPort"`
		MQTTPort string `survey:"mqttPort"`
		CoAPPort string `survey:"coapPort"`
		Tier     string `survey:"tier"`
	}{}

	if err := survey.Ask(qs, &answers); err != nil {
		return Config{}, err
	}
	return NewConfig(answers.HTTPPort, answers.MQTTPort, answers.CoAPPort, answers.Tier), nil
}
