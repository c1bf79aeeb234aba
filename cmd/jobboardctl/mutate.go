package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jobboard/internal/domain"
	"jobboard/internal/form"
	"jobboard/internal/listquery"
	"jobboard/internal/mutation"
	"jobboard/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	mutateData  string
	mutateFiles []string
)

// errFailed is returned after the notifier already printed the reason.
var errFailed = errors.New("request failed")

var createCmd = &cobra.Command{
	Use:   "create <entity>",
	Short: "Create a record after validating it locally",
	Example: `  jobboardctl create users --data '{"fullName":"Ann","email":"ann@example.com","password":"secret-pass","role":"seeker"}'
  jobboardctl create employers --data @employer.json --file logo=./logo.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitForm(cmd, args[0], mutation.OpCreate, 0)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <entity> <id>",
	Short: "Update a record after validating it locally",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return submitForm(cmd, args[0], mutation.OpUpdate, id)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <entity> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := entityArg(args[0])
		if err != nil {
			return err
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		out := current.exec.Execute(cmd.Context(), mutation.Request{
			Entity: schema.Entity,
			Op:     mutation.OpDelete,
			ID:     id,
		})
		if !out.OK {
			return errFailed
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createCmd, updateCmd} {
		c.Flags().StringVar(&mutateData, "data", "", "JSON payload, or @file to read it from a file")
		c.Flags().StringArrayVar(&mutateFiles, "file", nil, "file field as field=path, repeatable")
		_ = c.MarkFlagRequired("data")
	}
	rootCmd.AddCommand(createCmd, updateCmd, deleteCmd)
}

func submitForm(cmd *cobra.Command, entity string, op mutation.Op, id domain.ID) error {
	schema, err := entityArg(entity)
	if err != nil {
		return err
	}
	fs, ok := form.SchemaFor(schema.Entity, op == mutation.OpCreate)
	if !ok {
		return fmt.Errorf("%s cannot be edited", entity)
	}
	if schema.Entity == listquery.Applications && op == mutation.OpCreate {
		return errors.New("use `jobboardctl apply` to submit applications")
	}

	draft, err := readDraft(mutateData)
	if err != nil {
		return err
	}
	session := workflow.NewSession(current.exec, current.notifier, workflow.Spec{
		Entity:  schema.Entity,
		Op:      op,
		ID:      id,
		Schema:  fs,
		Initial: draft,
		OnClose: func(body []byte) { printBody(cmd, body) },
	})
	if err := attachFiles(session.Attach, mutateFiles); err != nil {
		return err
	}
	return finish(session.Submit(cmd.Context()))
}

func finish(res workflow.Result, err error) error {
	if err != nil {
		return err
	}
	if res.Blocked || !res.Outcome.OK {
		return errFailed
	}
	return nil
}

// readDraft decodes the --data flag. "@path" reads the JSON from a file.
func readDraft(raw string) (form.Draft, error) {
	blob := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		blob = b
	}
	draft := form.Draft{}
	if err := json.Unmarshal(blob, &draft); err != nil {
		return nil, fmt.Errorf("--data is not a JSON object: %w", err)
	}
	return draft, nil
}

func attachFiles(attach func(field, filename string, content []byte) (string, bool), specs []string) error {
	for _, raw := range specs {
		field, path, ok := strings.Cut(raw, "=")
		if !ok || field == "" || path == "" {
			return fmt.Errorf("file %q must be field=path", raw)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		attach(field, filepath.Base(path), content)
	}
	return nil
}

func parseID(raw string) (domain.ID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("id %q must be a positive integer", raw)
	}
	return domain.ID(n), nil
}

func printBody(cmd *cobra.Command, body []byte) {
	if len(body) == 0 {
		return
	}
	var v any
	if json.Unmarshal(body, &v) != nil {
		return
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
