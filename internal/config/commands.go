package config

import (
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CannedCommand is a fixed-reply command declared in the commands file.
type CannedCommand struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Reply       string `yaml:"reply"`
}

type commandsFile struct {
	Commands []CannedCommand `yaml:"commands"`
}

// LoadCommands reads canned commands from a YAML file:
//
//	commands:
//	  - name: rules
//	    description: Show the rules
//	    reply: "Be nice, {args}."
func LoadCommands(path string) ([]CannedCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read commands file %s", path)
	}
	return ParseCommands(data)
}

// ParseCommands decodes and validates a commands document.
func ParseCommands(data []byte) ([]CannedCommand, error) {
	var doc commandsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode commands file")
	}

	for i, c := range doc.Commands {
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			return nil, errors.Errorf("command #%d has no name", i+1)
		case strings.IndexFunc(name, unicode.IsSpace) >= 0:
			return nil, errors.Errorf("command %q: name must be a single word", name)
		case c.Reply == "":
			return nil, errors.Errorf("command %q has no reply", name)
		}
		doc.Commands[i].Name = name
	}
	return doc.Commands, nil
}
