package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/api/responses"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/core/report"
	"github.com/rakeshkanojia96-rgb/gst-report-generator/internal/domain"
)

// ReportHandler handles the GSTR1 report-generation API requests.
type ReportHandler struct {
	service report.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service report.Service) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// parseReportInput reads the multipart form shared by all report routes:
// repeated amazonFiles/meeshoFiles file fields, a gstin field and a period
// field in YYYY-MM form. At least one marketplace file is required.
func (h *ReportHandler) parseReportInput(c *gin.Context) (domain.ReportInput, []multipart.File, bool) {
	var input domain.ReportInput

	form, err := c.MultipartForm()
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return input, nil, false
	}

	period, err := domain.ParsePeriod(c.PostForm("period"))
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Filing period must be provided as YYYY-MM", err.Error())
		return input, nil, false
	}
	input.Period = period
	input.GSTIN = strings.TrimSpace(c.PostForm("gstin"))

	var opened []multipart.File
	openAll := func(headers []*multipart.FileHeader) ([]domain.UploadedFile, bool) {
		files := make([]domain.UploadedFile, 0, len(headers))
		for _, header := range headers {
			if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" && ext != ".xls" && ext != ".xlsx" {
				responses.Error(c, http.StatusBadRequest, fmt.Sprintf("Unsupported file extension: %s", ext))
				return nil, false
			}
			f, err := header.Open()
			if err != nil {
				responses.Error(c, http.StatusInternalServerError, fmt.Sprintf("Could not open uploaded file %s", header.Filename))
				return nil, false
			}
			opened = append(opened, f)
			files = append(files, domain.UploadedFile{Filename: header.Filename, Reader: f})
		}
		return files, true
	}

	amazonFiles, ok := openAll(form.File["amazonFiles"])
	if !ok {
		closeAll(opened)
		return input, nil, false
	}
	meeshoFiles, ok := openAll(form.File["meeshoFiles"])
	if !ok {
		closeAll(opened)
		return input, nil, false
	}

	if len(amazonFiles) == 0 && len(meeshoFiles) == 0 {
		closeAll(opened)
		responses.Error(c, http.StatusBadRequest, "At least one Amazon or Meesho file is required")
		return input, nil, false
	}

	input.AmazonFiles = amazonFiles
	input.MeeshoFiles = meeshoFiles
	return input, opened, true
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

// HandleExcelReport generates the nine-sheet filing spreadsheet download.
func (h *ReportHandler) HandleExcelReport(c *gin.Context) {
	input, opened, ok := h.parseReportInput(c)
	if !ok {
		return
	}
	defer closeAll(opened)

	data, filename, err := h.service.GenerateWorkbook(input)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Could not generate the Excel report", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// HandleJSONReport generates the GSTR1 filing payload download.
func (h *ReportHandler) HandleJSONReport(c *gin.Context) {
	input, opened, ok := h.parseReportInput(c)
	if !ok {
		return
	}
	defer closeAll(opened)

	data, filename, err := h.service.GenerateFilingPayload(input)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Could not generate the filing payload", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// HandleSummary runs the pipeline without emitting artifacts and returns the
// record counts and warnings.
func (h *ReportHandler) HandleSummary(c *gin.Context) {
	input, opened, ok := h.parseReportInput(c)
	if !ok {
		return
	}
	defer closeAll(opened)

	summary, err := h.service.Summarize(input)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Could not process the uploaded files", err.Error())
		return
	}
	responses.Success(c, summary, "Report summary generated")
}
