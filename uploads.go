package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
	"github.com/mmdatafocus/gmcalc_backend/sheets"
	"github.com/mmdatafocus/gmcalc_backend/utils"
	"github.com/mmdatafocus/gmcalc_backend/workflow"
)

const (
	msgMissingFile     = "Please upload an Excel file"
	msgInvalidFileType = "Invalid file type. Please upload an Excel file"
	msgMissingThree    = "Please upload all three Excel files"
)

var allowedExcelTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
}

func isExcelFile(header *multipart.FileHeader) bool {
	if allowedExcelTypes[header.Header.Get("Content-Type")] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	return ext == ".xlsx" || ext == ".xls"
}

// readWorkbookUpload validates and parses one uploaded workbook, and
// archives the raw bytes for audit. A failed archive only logs; the
// upload itself proceeds.
func readWorkbookUpload(c *gin.Context, field string, kind string) ([]sheets.Row, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFile})
		return nil, "", false
	}
	if !isExcelFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidFileType})
		return nil, "", false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file", "details": err.Error()})
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file", "details": err.Error()})
		return nil, "", false
	}

	objectKey := fmt.Sprintf("%s/%s_%s", kind, uuid.NewString(), filepath.Base(header.Filename))
	archivePath, err := utils.ArchiveUpload(c.Request.Context(), objectKey, data, header.Header.Get("Content-Type"))
	if err != nil {
		config.LogError(config.GetLogger(), "uploads", "readWorkbookUpload", kind, header.Filename, err)
		archivePath = ""
	}

	rows, err := sheets.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}
	return rows, archivePath, true
}

func uploadStaffingHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, _, ok := readWorkbookUpload(c, "file", "staffing")
		if !ok {
			return
		}
		mapped, mapErrs := sheets.MapStaffingRows(rows)
		if err := workflow.IngestStaffingRows(c.Request.Context(), clock, mapped); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "File processed successfully",
			"results": gin.H{"inserted": len(mapped), "errors": len(mapErrs)},
		})
	}
}

func uploadSalaryHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, _, ok := readWorkbookUpload(c, "file", "salary")
		if !ok {
			return
		}
		mapped, mapErrs := sheets.MapSalaryRows(rows)
		if err := workflow.IngestSalaryRows(c.Request.Context(), clock, mapped); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Salary sheet processed successfully",
			"results": gin.H{"inserted": len(mapped), "errors": len(mapErrs)},
		})
	}
}

func uploadRevenueHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, _, ok := readWorkbookUpload(c, "file", "revenue")
		if !ok {
			return
		}
		mapped, mapErrs := sheets.MapRevenueRows(rows)
		if err := workflow.IngestRevenueRows(c.Request.Context(), clock, mapped); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process file", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Revenue sheet processed successfully",
			"results": gin.H{"inserted": len(mapped), "errors": len(mapErrs)},
		})
	}
}

func interimCostHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := workflow.RunInterimCostCalculation(c.Request.Context(), clock)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate interim cost", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Interim cost calculation completed successfully.",
			"results": result,
		})
	}
}

func interimProjectGMHandler(clock workflow.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := workflow.RunInterimProjectGMCalculation(c.Request.Context(), clock)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate interim project GM", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Interim Project GM calculation completed successfully.",
			"results": result,
		})
	}
}

func listInterimProjectGMHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.GetAllInterimProjectGM(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch interim project GM", "details": err.Error()})
			return
		}
		// GM is derived, never stored.
		type gmRow struct {
			*models.InterimProjectGm
			GrossMargin decimal.Decimal `json:"gross_margin"`
		}
		out := make([]gmRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, gmRow{r, r.Revenue.Sub(r.Cost)})
		}
		c.JSON(http.StatusOK, gin.H{"data": out})
	}
}

type trackUploadRequest struct {
	SheetName string `json:"sheet_name" binding:"required"`
	FileName  string `json:"file_name" binding:"required"`
	FilePath  string `json:"file_path"`
}

func trackUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trackUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		sheet, err := models.GetMonthlySheetByName(c.Request.Context(), req.SheetName)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown sheet", "details": req.SheetName})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track upload", "details": err.Error()})
			return
		}
		userId, _ := utils.GetUserIdFromContext(c.Request.Context())
		row, err := models.TrackMonthlyUpload(c.Request.Context(), sheet.ID, req.FileName, req.FilePath, userId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track upload", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": row})
	}
}

func uploadedSheetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.ListUploadedSheets(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch uploaded sheets", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

func downloadUploadedSheetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		row, err := models.GetMonthlyUploadedSheet(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "uploaded sheet not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch uploaded sheet", "details": err.Error()})
			return
		}
		if row.FilePath == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "no archived file for this upload"})
			return
		}
		data, err := utils.OpenArchivedUpload(c.Request.Context(), row.FilePath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read archived file", "details": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", row.FileName))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}

func listAdditionalCostsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.GetAdditionalCosts(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch additional costs", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

func createAdditionalCostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewAdditionalCost
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		row, err := models.CreateAdditionalCost(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create additional cost", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": row})
	}
}

func updateAdditionalCostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var input models.NewAdditionalCost
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		row, err := models.UpdateAdditionalCost(c.Request.Context(), id, &input)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "additional cost not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update additional cost", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": row})
	}
}

func getExchangeRateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rate, err := models.GetUSExchangeRate(c.Request.Context())
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "exchange rate not set"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch exchange rate", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rate})
	}
}

type exchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

func updateExchangeRateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exchangeRateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		rate, err := models.UpdateUSExchangeRate(c.Request.Context(), req.Rate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rate})
	}
}
