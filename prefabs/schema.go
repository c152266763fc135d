package prefabs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const villageSchemaFile = "village.schema.json"

var (
	villageSchemaOnce sync.Once
	villageSchema     *jsonschema.Schema
	villageSchemaErr  error
)

func compiledVillageSchema() (*jsonschema.Schema, error) {
	villageSchemaOnce.Do(func() {
		data, err := PrefabsFS.ReadFile(villageSchemaFile)
		if err != nil {
			villageSchemaErr = fmt.Errorf("prefabs: read %s: %w", villageSchemaFile, err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(villageSchemaFile, bytes.NewReader(data)); err != nil {
			villageSchemaErr = fmt.Errorf("prefabs: add %s: %w", villageSchemaFile, err)
			return
		}
		villageSchema, villageSchemaErr = c.Compile(villageSchemaFile)
	})
	return villageSchema, villageSchemaErr
}

// ValidateVillageSpec checks a YAML village document against the embedded
// JSON schema.
func ValidateVillageSpec(data []byte) error {
	schema, err := compiledVillageSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	// The validator only understands values decoded by encoding/json.
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
