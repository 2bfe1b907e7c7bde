package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brightpath-it/backoffice/storage/model"
)

func newImportCmd() *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "import <kind> <file>",
		Short: "Import requests exported from the previous document store",
		Long: "Import requests exported from the previous document store. The file holds either a JSON array " +
			"or one JSON object per line. Requests whose id already exists are skipped.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requestStore(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return errors.WithStack(err)
			}
			defer f.Close()
			records, err := readLegacyRecords(f)
			if err != nil {
				return err
			}
			n, err := store.Import(records, actor)
			if err != nil {
				return err
			}
			log.WithFields(
				log.Fields{
					"kind":     store.Kind().Name,
					"read":     len(records),
					"imported": n,
				},
			).Info("import finished")
			return printJSON(
				cmd.OutOrStdout(), map[string]int{
					"read":     len(records),
					"imported": n,
					"skipped":  len(records) - n,
				},
			)
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "import", "recorded author of history entries without one")
	return cmd
}

// readLegacyRecords reads a JSON array or JSON lines of legacy requests
func readLegacyRecords(r io.Reader) ([]model.LegacyRequest, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.WithStack(err)
	}
	if first == '[' {
		var records []model.LegacyRequest
		if err = json.NewDecoder(br).Decode(&records); err != nil {
			return nil, errors.Wrap(err, "could not parse json array")
		}
		return records, nil
	}

	var records []model.LegacyRequest
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var rec model.LegacyRequest
		if err = json.Unmarshal(data, &rec); err != nil {
			return nil, errors.Wrapf(err, "could not parse line %d", line)
		}
		records = append(records, rec)
	}
	return records, errors.WithStack(scanner.Err())
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
