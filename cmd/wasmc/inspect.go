package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shuuji3/wasmer/engine"
	"github.com/shuuji3/wasmer/loader"
	"github.com/shuuji3/wasmer/wasmbin"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Dump the structure of a module or the metadata of an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			if bytes.HasPrefix(data, wasmbin.Magic) {
				return inspectModule(data)
			}
			return inspectArtifact(args[0])
		},
	}
}

func inspectModule(data []byte) error {
	sections, err := wasmbin.ReadSections(data)
	if err != nil {
		return err
	}

	for _, s := range sections {
		fmt.Printf("section %2d  %6d bytes\n", s.ID, len(s.Contents))
	}

	for _, s := range sections {
		switch s.ID {
		case wasmbin.SectionType:
			funcTypes, err := wasmbin.DecodeTypeSection(s.Contents)
			if err != nil {
				return err
			}
			for i, ft := range funcTypes {
				fmt.Printf("type %d: %s\n", i, ft)
			}
		case wasmbin.SectionExport:
			exports, err := wasmbin.DecodeExportSection(s.Contents)
			if err != nil {
				return err
			}
			for _, e := range exports {
				fmt.Printf("export %q kind %d index %d\n", e.Name, e.Kind, e.Index)
			}
		}
	}
	return nil
}

func inspectArtifact(path string) error {
	lib, err := loader.NewDlopen().Open(path)
	if err != nil {
		return err
	}

	blob, err := lib.Blob(engine.MetadataSymbol)
	if err != nil {
		return err
	}

	meta, err := engine.InspectMetadata(blob)
	if err != nil {
		return err
	}

	fmt.Printf("target: %s\n", meta.Target)
	if meta.Prefix != "" {
		fmt.Printf("prefix: %s\n", meta.Prefix)
	}
	for _, exp := range meta.Exports {
		fmt.Printf("export %q -> %s  %s\n", exp.Name, exp.Symbol, exp.Signature)
	}
	return nil
}
