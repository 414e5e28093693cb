package main

import (
	"log"
	"os"
	"strings"

	"presence-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

type inspectConfig struct {
	DBPath string `envconfig:"BADGER_FILEPATH"`
	// INSPECT_PREFIX narrows the scan, e.g. "participant:" or "msg:"
	Prefix string `envconfig:"INSPECT_PREFIX" default:""`
	// INSPECT_SEQUENCES also lists the insertion order index
	Sequences bool `envconfig:"INSPECT_SEQUENCES" default:"false"`
}

func main() {
	var cfg inspectConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = database.DefaultPath
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DBPath).WithReadOnly(true).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Time", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(cfg.Prefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if !cfg.Sequences && strings.HasPrefix(key, "msgseq:") {
				continue
			}
			err := item.Value(func(v []byte) error {
				record := repositories.DescribeRecord(key, v)
				at := ""
				if !record.At.IsZero() {
					at = record.At.Format("15:04:05")
				}
				table.Append([]string{record.Key, record.Type, at, record.Detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}
