// Command protocol-schema writes JSON schemas for the documentable wire
// payloads. Server implementors validate their frames against these instead
// of reading the decoder source.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"nightfall/client/internal/game"
	"nightfall/client/internal/protocol"
	"nightfall/client/internal/reconnect"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for name, schema := range buildSchemas() {
		path := filepath.Join(outDir, name+".schema.json")
		if err := writeSchema(path, schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", name, err)
			os.Exit(1)
		}
	}
}

func buildSchemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}

	describe := func(target any, title, description string) *jsonschema.Schema {
		schema := reflector.Reflect(target)
		schema.Title = title
		schema.Description = description
		return schema
	}

	return map[string]*jsonschema.Schema{
		"acceptJoin": describe(new(protocol.AcceptJoin),
			"Accept Join",
			"Server confirmation of a join, host or rejoin request."),
		"rejectJoin": describe(new(protocol.RejectJoin),
			"Reject Join",
			"Server refusal of a join, host or rejoin request."),
		"player": describe(new(game.Player),
			"Player",
			"One seat in a running game as the client tracks it."),
		"lobbyPreview": describe(new(game.LobbyPreview),
			"Lobby Preview",
			"One joinable room in the lobby browser listing."),
		"reconnectToken": describe(new(reconnect.Token),
			"Reconnect Token",
			"Identity persisted on disk to resume a seat after a restart."),
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
