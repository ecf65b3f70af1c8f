package autopart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// WriteAll writes <prefix>.mapping, <prefix>.blocks and <prefix>.json into outputDir
func WriteAll(result *Result, outputDir, prefix string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	mappingPath := filepath.Join(outputDir, prefix+".mapping")
	if err := WriteMapping(result, mappingPath); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}

	blocksPath := filepath.Join(outputDir, prefix+".blocks")
	if err := WriteBlocks(result, blocksPath); err != nil {
		return fmt.Errorf("failed to write blocks: %w", err)
	}

	summaryPath := filepath.Join(outputDir, prefix+".json")
	if err := WriteSummary(result, summaryPath); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// WriteMapping writes every group as a header line "g<id>", a line with
// its size, then one member label per line in sorted order
func WriteMapping(result *Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for g, members := range result.Groups {
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)

		fmt.Fprintf(file, "g%d\n%d\n", g, len(sorted))
		for _, label := range sorted {
			fmt.Fprintf(file, "%s\n", label)
		}
	}
	return nil
}

// WriteBlocks writes one "i j weight size density" line per block
func WriteBlocks(result *Result, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, b := range result.Blocks {
		fmt.Fprintf(file, "%d %d %.0f %.0f %.6f\n", b.Row, b.Col, b.Weight, b.Size, b.Density)
	}
	return nil
}

// WriteSummary writes the result as indented JSON
func WriteSummary(result *Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
