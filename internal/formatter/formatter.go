// package formatter renders ranked lists and leaderboards as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/topten/internal/models"
	"github.com/desertthunder/topten/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (csv, markdown, txt, json)", shared.ErrInvalidArgument, s)
	}
}

// List is a titled ranked list ready for export.
type List struct {
	Title string
	Songs []models.Song
}

// ExportToCSV converts a List to CSV format with columns: Rank, Name, Artist, Album Cover URL, URI
func ExportToCSV(list List) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Rank", "Name", "Artist", "Album Cover URL", "URI"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range list.Songs {
		record := []string{strconv.Itoa(song.Rank), song.Name, song.Artist, song.AlbumCoverURL, song.URI}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a List to Markdown format with an optional cover image for the top song
func ExportToMarkdown(list List, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", list.Title)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", imageFilename)
	}

	fmt.Fprintf(&buf, "**Songs**: %d of %d\n\n", len(list.Songs), models.ListSize)

	for _, song := range list.Songs {
		if song.AlbumCoverURL != "" {
			fmt.Fprintf(&buf, "%d. %s - %s ([cover](%s))\n", song.Rank, song.Artist, song.Name, song.AlbumCoverURL)
		} else {
			fmt.Fprintf(&buf, "%d. %s - %s\n", song.Rank, song.Artist, song.Name)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a List to plain text format
func ExportToText(list List) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", list.Title)
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(list.Songs))

	for _, song := range list.Songs {
		fmt.Fprintf(&buf, "%2d. %s - %s\n", song.Rank, song.Artist, song.Name)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the songs in the backend's wire format.
func ExportToJSON(list List) ([]byte, error) {
	return shared.MarshalJSON(list.Songs, true)
}

// Export renders list in format.
func Export(list List, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(list)
	case FormatMarkdown:
		return ExportToMarkdown(list, "")
	case FormatText:
		return ExportToText(list)
	case FormatJSON:
		return ExportToJSON(list)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// RankingsToText renders a leaderboard as aligned plain text.
func RankingsToText(rankings []models.Ranking) []byte {
	var buf bytes.Buffer
	for i, r := range rankings {
		fmt.Fprintf(&buf, "%2d. %s - %s  (votes %d, avg %.2f, score %.2f)\n",
			i+1, r.Artist, r.Name, r.Votes, r.AverageRank, r.Score)
	}
	return buf.Bytes()
}

// RankingsToCSV renders a leaderboard with columns: Position, Name, Artist, Votes, Average Rank, Score
func RankingsToCSV(rankings []models.Ranking) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "Name", "Artist", "Votes", "Average Rank", "Score"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, r := range rankings {
		record := []string{
			strconv.Itoa(i + 1),
			r.Name,
			r.Artist,
			strconv.Itoa(r.Votes),
			strconv.FormatFloat(r.AverageRank, 'f', 2, 64),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when the top song has a cover, {dir}/cover.jpg.
//
// A cover that cannot be downloaded is skipped with a warning.
func WriteMarkdownExport(list List, outputDir string, warn io.Writer) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "topten"
	}
	if warn == nil {
		warn = io.Discard
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if len(list.Songs) > 0 && list.Songs[0].AlbumCoverURL != "" {
		imageData, err := DownloadImage(list.Songs[0].AlbumCoverURL)
		if err != nil {
			fmt.Fprintf(warn, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(warn, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(list, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteExport renders list in format and writes it to path.
func WriteExport(list List, format Format, path string) error {
	data, err := Export(list, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
