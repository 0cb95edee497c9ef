package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

const schemaName = "config.schema.json"

// printer formats schema validation error messages.
var printer = message.NewPrinter(language.English)

var compiled = sync.OnceValues(compileSchema)

// Schema returns the JSON schema of the config file, reflected from Config.
func Schema() ([]byte, error) {
	return json.MarshalIndent(reflectSchema(), "", "  ")
}

func reflectSchema() *invopop.Schema {
	reflector := invopop.Reflector{DoNotReference: true, Anonymous: true}
	schema := reflector.Reflect(&Config{})
	schema.Title = "ema-console configuration"
	return schema
}

func compileSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(reflectSchema())
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", schemaName, err)
	}

	var schemaDoc any
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", schemaName, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, schemaDoc); err != nil {
		return nil, fmt.Errorf("adding %s resource: %w", schemaName, err)
	}
	return compiler.Compile(schemaName)
}

// ValidateBytes validates raw YAML against the config schema and returns
// one message per problem.
func ValidateBytes(data []byte) []string {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if doc == nil {
		return nil
	}
	instance, err := jsonCompatible(doc)
	if err != nil {
		return []string{fmt.Sprintf("YAML structure error: %v", err)}
	}

	schema, err := compiled()
	if err != nil {
		return []string{fmt.Sprintf("schema: %v", err)}
	}

	err = schema.Validate(instance)
	if err == nil {
		return nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	problems := []string{}
	collectSchemaErrors(validationErr, &problems)
	return problems
}

func collectSchemaErrors(validationErr *jsonschema.ValidationError, problems *[]string) {
	if len(validationErr.Causes) == 0 {
		location := "/" + strings.Join(validationErr.InstanceLocation, "/")
		*problems = append(*problems, fmt.Sprintf("%s: %s", location, validationErr.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range validationErr.Causes {
		collectSchemaErrors(cause, problems)
	}
}

// jsonCompatible re-decodes doc through encoding/json so numbers and maps
// take the shapes the validator expects.
func jsonCompatible(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, err
	}
	return instance, nil
}
