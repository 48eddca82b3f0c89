package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const maxImportRows = 1000

// Import columns, matched case-insensitively against the header row
const (
	colType             = "type"
	colText             = "text"
	colPoints           = "points"
	colTimeLimitSeconds = "time_limit_seconds"
	colHint             = "hint"
	colIsParameterized  = "is_parameterized"
	colParameters       = "parameters"
	colSolution         = "solution"
)

var requiredImportColumns = []string{colType, colText, colSolution}

// ImportService bulk-creates questions from a spreadsheet
type ImportService interface {
	ImportQuestions(ctx context.Context, file io.Reader, filename, userID string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error)
}

type importService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	log       *ServiceLogger
}

func NewImportService(deps Dependencies) ImportService {
	return &importService{
		repo:      deps.Repo,
		publisher: deps.Publisher,
		validator: deps.Validator,
		log:       NewServiceLogger(deps.Logger, "import"),
	}
}

// ImportQuestions picks the parser from the file extension
func (s *importService) ImportQuestions(ctx context.Context, file io.Reader, filename, userID string) (*ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, file, userID)
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, file, userID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrImportUnsupportedFormat, ext)
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrBadRequest, err)
	}

	return s.importRows(ctx, rows, userID)
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open Excel file: %v", ErrBadRequest, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.importRows(ctx, rows, userID)
}

// importRows validates every row independently and stores the valid ones in one batch
func (s *importService) importRows(ctx context.Context, rows [][]string, userID string) (result *ImportResult, err error) {
	op := s.log.WithOperation(ctx, "import_questions", userID)
	defer func() { op.LogResult("", "question", err) }()

	dataRows := 0
	for _, row := range rows[min(1, len(rows)):] {
		if !isBlankRow(row) {
			dataRows++
		}
	}
	if dataRows == 0 {
		return nil, ErrImportEmptyFile
	}
	if dataRows > maxImportRows {
		return nil, NewValidationError("file", fmt.Sprintf("must not contain more than %d rows", maxImportRows), dataRows)
	}

	headerMap := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := headerMap[col]; !ok {
			return nil, NewValidationError("headers", "missing required column: "+col, col)
		}
	}

	result = &ImportResult{
		TotalRows: dataRows,
		Errors:    []ImportRowError{},
	}

	var records []*models.QuestionRecord
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		// 1-based, counting the header
		rowNum := i + 2

		body, rowErr := parseImportRow(row, headerMap, rowNum)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		record, err := buildQuestionRecord(s.validator, body, userID)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: ClientMessage(err)})
			continue
		}
		records = append(records, record)
	}

	if err := s.repo.Question().CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store imported questions: %w", err)
	}

	for _, record := range records {
		result.QuestionIDs = append(result.QuestionIDs, record.ID)
		publishEvent(ctx, s.publisher, s.log, events.NewQuestionCreatedEvent(record.ID, record.Type, userID))
	}
	result.SuccessCount = len(records)
	result.ErrorCount = len(result.Errors)

	return result, nil
}

func parseImportRow(row []string, headerMap map[string]int, rowNum int) (*CreateQuestionBody, *ImportRowError) {
	get := func(name string) string {
		if index, ok := headerMap[name]; ok && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}
	fail := func(column, message string) *ImportRowError {
		return &ImportRowError{Row: rowNum, Column: column, Message: message}
	}

	req := &QuestionRequest{
		Type: models.QuestionType(strings.ToUpper(get(colType))),
		Text: get(colText),
		Hint: get(colHint),
	}

	var err error
	if req.Points, err = parseIntCell(get(colPoints)); err != nil {
		return nil, fail(colPoints, "must be a whole number")
	}
	if req.TimeLimitSeconds, err = parseIntCell(get(colTimeLimitSeconds)); err != nil {
		return nil, fail(colTimeLimitSeconds, "must be a whole number")
	}
	if raw := get(colIsParameterized); raw != "" {
		if req.IsParameterized, err = strconv.ParseBool(raw); err != nil {
			return nil, fail(colIsParameterized, "must be true or false")
		}
	}
	if raw := get(colParameters); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Parameters); err != nil {
			return nil, fail(colParameters, "must be a JSON array of parameters")
		}
	}

	solution := get(colSolution)
	if solution == "" {
		return nil, fail(colSolution, "is required")
	}
	if !json.Valid([]byte(solution)) {
		return nil, fail(colSolution, "must be valid JSON")
	}

	return &CreateQuestionBody{Question: req, Solution: json.RawMessage(solution)}, nil
}

func parseIntCell(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
