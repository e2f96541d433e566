package compose

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// Service is one service entry in a docker-compose file.
type Service struct {
	Image         string            `yaml:"image"`
	ContainerName string            `yaml:"container_name,omitempty"`
	Restart       string            `yaml:"restart,omitempty"`
	Ports         []string          `yaml:"ports,omitempty"`
	Volumes       []string          `yaml:"volumes,omitempty"`
	Environment   map[string]string `yaml:"environment,omitempty"`
}

// File is a minimal docker-compose file model, just enough for the stacks
// this tool deploys.
type File struct {
	Services map[string]Service     `yaml:"services"`
	Volumes  map[string]interface{} `yaml:"volumes,omitempty"`
}

// Render marshals the compose file to YAML.
func Render(f File) (string, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to render compose file: %w", err)
	}
	return string(data), nil
}

// Homarr returns the compose stack for the Homarr dashboard.
func Homarr() File {
	return File{
		Services: map[string]Service{
			"homarr": {
				Image:         "ghcr.io/homarr-labs/homarr:latest",
				ContainerName: "homarr",
				Restart:       "unless-stopped",
				Ports:         []string{"7575:7575"},
				Volumes: []string{
					"homarr-appdata:/appdata",
					"/var/run/docker.sock:/var/run/docker.sock",
				},
			},
		},
		Volumes: map[string]interface{}{
			"homarr-appdata": nil,
		},
	}
}

// Portainer returns the compose stack for the Portainer management UI
// deployed on the generic Docker host.
func Portainer() File {
	return File{
		Services: map[string]Service{
			"portainer": {
				Image:         "portainer/portainer-ce:latest",
				ContainerName: "portainer",
				Restart:       "unless-stopped",
				Ports:         []string{"9443:9443"},
				Volumes: []string{
					"portainer-data:/data",
					"/var/run/docker.sock:/var/run/docker.sock",
				},
			},
		},
		Volumes: map[string]interface{}{
			"portainer-data": nil,
		},
	}
}
