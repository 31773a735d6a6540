// Package local persists extraction artifacts to the local filesystem.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pagelens/internal/config"
	"pagelens/internal/domain"
	"pagelens/internal/port"
)

// Store writes page and document artifacts under a document directory:
//
//	<docDir>/pages/page_NNN/raw_output.txt
//	<docDir>/pages/page_NNN/elements.json
//	<docDir>/pages/page_NNN/page_NNN.md
//	<docDir>/combined/full_document.json
//	<docDir>/combined/full_document.md
//	<docDir>/metadata.json
type Store struct {
	saveRaw      bool
	saveJSON     bool
	saveMarkdown bool
}

var _ port.ArtifactStore = (*Store)(nil)

// NewStore creates an artifact store honoring the output format toggles.
func NewStore(cfg *config.OutputConfig) *Store {
	return &Store{
		saveRaw:      cfg.SaveRaw,
		saveJSON:     cfg.SaveJSON,
		saveMarkdown: cfg.SaveMarkdown,
	}
}

// SavePage writes one page's artifacts and returns their paths.
func (s *Store) SavePage(ctx context.Context, docDir string, pageNumber int, result *domain.ExtractionResult) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageDir := filepath.Join(docDir, "pages", fmt.Sprintf("page_%03d", pageNumber))
	if err := os.MkdirAll(pageDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create page directory: %w", err)
	}

	var artifacts []string

	if s.saveRaw {
		rawPath := filepath.Join(pageDir, "raw_output.txt")
		if err := os.WriteFile(rawPath, []byte(result.RawOutput), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write raw output: %w", err)
		}
		artifacts = append(artifacts, rawPath)
	}

	if s.saveJSON {
		jsonPath := filepath.Join(pageDir, "elements.json")
		payload := map[string]any{
			"page_number":     pageNumber,
			"image_path":      result.ImagePath,
			"model_name":      result.ModelName,
			"format":          "none",
			"success":         result.Success,
			"element_count":   result.ElementCount(),
			"processing_time": result.ProcessingTime.Seconds(),
			"elements":        result.ElementsOrEmpty(),
		}
		if result.ParseResult != nil {
			payload["format"] = result.ParseResult.Format
			if len(result.ParseResult.Warnings) > 0 {
				payload["warnings"] = result.ParseResult.Warnings
			}
		}
		if result.ErrorMessage != "" {
			payload["error_message"] = result.ErrorMessage
		}
		if err := writeJSON(jsonPath, payload); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, jsonPath)
	}

	if s.saveMarkdown {
		mdPath := filepath.Join(pageDir, fmt.Sprintf("page_%03d.md", pageNumber))
		md := RenderMarkdown(result.ElementsOrEmpty())
		if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write markdown: %w", err)
		}
		artifacts = append(artifacts, mdPath)
	}

	return artifacts, nil
}

// SaveCombined writes the document-level combined outputs and metadata.
func (s *Store) SaveCombined(ctx context.Context, docDir string, result *domain.DocumentResult) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var artifacts []string

	combinedDir := filepath.Join(docDir, "combined")
	if err := os.MkdirAll(combinedDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create combined directory: %w", err)
	}

	combined := result.Combined()

	if s.saveJSON {
		jsonPath := filepath.Join(combinedDir, "full_document.json")
		if err := writeJSON(jsonPath, combined); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, jsonPath)
	}

	if s.saveMarkdown {
		mdPath := filepath.Join(combinedDir, "full_document.md")
		var sb strings.Builder
		for i, page := range combined.Pages {
			if i > 0 {
				sb.WriteString("\n---\n\n")
			}
			sb.WriteString(fmt.Sprintf("## Page %d\n\n", page.PageNumber))
			if !page.Success {
				sb.WriteString(fmt.Sprintf("*Page failed: %s*\n", page.ErrorMessage))
				continue
			}
			sb.WriteString(RenderMarkdown(page.Elements))
		}
		if err := os.WriteFile(mdPath, []byte(sb.String()), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write combined markdown: %w", err)
		}
		artifacts = append(artifacts, mdPath)
	}

	metaPath := filepath.Join(docDir, "metadata.json")
	if err := writeJSON(metaPath, result.Summary()); err != nil {
		return nil, err
	}
	artifacts = append(artifacts, metaPath)

	return artifacts, nil
}

// RenderMarkdown converts parsed elements into a markdown fragment. Heading
// elements map to markdown headings by level; table and code elements keep
// their raw content.
func RenderMarkdown(elements []domain.Element) string {
	var sb strings.Builder
	for _, el := range elements {
		content := strings.TrimSpace(el.Content)
		if content == "" {
			continue
		}
		switch {
		case strings.HasPrefix(el.Type, "heading"):
			sb.WriteString(headingPrefix(el.Type))
			sb.WriteString(content)
			sb.WriteString("\n\n")
		case el.Type == "title":
			sb.WriteString("# ")
			sb.WriteString(content)
			sb.WriteString("\n\n")
		case el.Type == "code":
			sb.WriteString("```\n")
			sb.WriteString(content)
			sb.WriteString("\n```\n\n")
		default:
			sb.WriteString(content)
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func headingPrefix(elementType string) string {
	// heading_1 .. heading_6
	if idx := strings.LastIndex(elementType, "_"); idx >= 0 {
		if level := elementType[idx+1:]; len(level) == 1 && level[0] >= '1' && level[0] <= '6' {
			return strings.Repeat("#", int(level[0]-'0')) + " "
		}
	}
	return "## "
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
