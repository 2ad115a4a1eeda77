package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/utils"
)

// ExportService выгружает совпадения в файл для административного отчета
type ExportService interface {
	ExportMatches(ctx context.Context, format string) (string, error)
}

type exportService struct {
	matchRepo repository.MatchRepository
	outputDir string
}

func NewExportService(matchRepo repository.MatchRepository, outputDir string) ExportService {
	if outputDir == "" {
		outputDir = "./data/exports"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Printf("Failed to create export directory: %v", err)
	}

	return &exportService{
		matchRepo: matchRepo,
		outputDir: outputDir,
	}
}

func (s *exportService) ExportMatches(ctx context.Context, format string) (string, error) {
	matches, err := s.matchRepo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load matches: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")

	switch format {
	case "csv":
		path := filepath.Join(s.outputDir, fmt.Sprintf("matches_export_%s.csv", timestamp))
		if err := s.saveToCSV(path, matches); err != nil {
			return "", err
		}
		return path, nil

	case "excel", "xlsx":
		path := filepath.Join(s.outputDir, fmt.Sprintf("matches_export_%s.xlsx", timestamp))
		if err := utils.CreateMatchReport(path, matches); err != nil {
			return "", fmt.Errorf("failed to create Excel report: %w", err)
		}
		return path, nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (s *exportService) saveToCSV(path string, matches []*models.MatchWithItems) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "score", "status", "lost_title", "lost_category", "found_title", "found_category", "created_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, m := range matches {
		row := []string{
			m.ID,
			strconv.Itoa(m.MatchScore),
			m.Status,
			m.LostTitle,
			m.LostCategory,
			m.FoundTitle,
			m.FoundCategory,
			m.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
