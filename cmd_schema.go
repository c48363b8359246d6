package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/nstehr/arena-core/model"
)

var schemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a level snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(buildSchema(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		data = append(data, '\n')
		if schemaOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(schemaOut, data, 0o644); err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaOut, "out", "", "write the schema to a file instead of stdout")
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(model.Snapshot))
	schema.Title = "Arena Level Data"
	schema.Description = "One tick of world state posted to the agent"
	return schema
}
