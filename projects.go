package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mmdatafocus/gmcalc_backend/config"
	"github.com/mmdatafocus/gmcalc_backend/models"
	"github.com/mmdatafocus/gmcalc_backend/models/reports"
	"github.com/mmdatafocus/gmcalc_backend/sheets"
	"github.com/mmdatafocus/gmcalc_backend/utils"
	"github.com/mmdatafocus/gmcalc_backend/workflow"
)

func listEmployeesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := models.GetEmployees(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch employees", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

func createEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewEmployee
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		row, err := models.CreateEmployee(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create employee", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": row})
	}
}

func updateEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var input models.NewEmployee
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		row, err := models.UpdateEmployee(c.Request.Context(), id, &input)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update employee", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": row})
	}
}

func deleteEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if err := models.DeleteEmployee(c.Request.Context(), id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete employee", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "employee deleted"})
	}
}

// viewerScope resolves the requester's role and employee row for
// project-visibility filtering. Admins see everything; managers and
// heads see the projects assigned to them through their employee record.
func viewerScope(c *gin.Context) (role string, employeeId int) {
	ctx := c.Request.Context()
	role, _ = utils.GetUserRoleFromContext(ctx)
	if role == models.RoleAdmin {
		return role, 0
	}
	email, _ := utils.GetUserEmailFromContext(ctx)
	employee, err := models.GetEmployeeByEmail(ctx, email)
	if err != nil {
		return role, 0
	}
	return role, employee.ID
}

func listProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, employeeId := viewerScope(c)
		rows, err := models.GetProjectsForViewer(c.Request.Context(), role, employeeId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

func getProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		row, err := models.GetProject(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": row})
	}
}

func createProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProject
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		row, err := models.CreateProject(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create project", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": row})
	}
}

func updateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var input models.NewProject
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
		row, err := models.UpdateProject(c.Request.Context(), id, &input)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update project", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": row})
	}
}

func deleteProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		if err := models.DeleteProject(c.Request.Context(), id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
	}
}

// readProjectWorkbook parses one of the three per-project workbooks, or
// reports which file is missing via the shared 400 message.
func readProjectWorkbook(c *gin.Context, field string, kind string) ([]sheets.Row, string, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingThree})
		return nil, "", "", false
	}
	if !isExcelFile(header) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidFileType})
		return nil, "", "", false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file", "details": err.Error()})
		return nil, "", "", false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file", "details": err.Error()})
		return nil, "", "", false
	}

	objectKey := fmt.Sprintf("%s/%s_%s", kind, uuid.NewString(), filepath.Base(header.Filename))
	archivePath, err := utils.ArchiveUpload(c.Request.Context(), objectKey, data, header.Header.Get("Content-Type"))
	if err != nil {
		config.LogError(config.GetLogger(), "projects", "readProjectWorkbook", kind, header.Filename, err)
		archivePath = ""
	}

	rows, err := sheets.ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", "", false
	}
	return rows, archivePath, header.Filename, true
}

func uploadProjectSheetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		financeRows, financePath, financeName, ok := readProjectWorkbook(c, "file1", "project-finance")
		if !ok {
			return
		}
		resourceRows, resourcePath, resourceName, ok := readProjectWorkbook(c, "file2", "project-resource")
		if !ok {
			return
		}
		salaryRows, salaryPath, salaryName, ok := readProjectWorkbook(c, "file3", "project-salary")
		if !ok {
			return
		}

		finance, financeErrs := sheets.MapFinanceRows(financeRows)
		resources, resourceErrs := sheets.MapResourceRows(resourceRows)
		salaries, salaryErrs := sheets.MapProjectSalaryRows(salaryRows)

		result, err := workflow.RunProjectMetricsCalculation(c.Request.Context(), projectId, finance, resources, salaries)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate project metrics", "details": err.Error()})
			return
		}

		userId, _ := utils.GetUserIdFromContext(c.Request.Context())
		upload := &models.Upload{
			ProjectId:        projectId,
			FinanceFile:      financeName,
			ResourceFile:     resourceName,
			SalaryFile:       salaryName,
			FinanceFilePath:  financePath,
			ResourceFilePath: resourcePath,
			SalaryFilePath:   salaryPath,
			UploadedBy:       userId,
		}
		if err := models.CreateUpload(c.Request.Context(), upload); err != nil {
			config.LogError(config.GetLogger(), "projects", "uploadProjectSheetsHandler", "record upload", projectId, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"msg": "Data calculated and updated successfully",
			"results": gin.H{
				"inserted": result.Inserted,
				"dropped":  result.Dropped,
				"errors":   len(financeErrs) + len(resourceErrs) + len(salaryErrs),
			},
		})
	}
}

func listProjectUploadsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		rows, err := models.ListUploads(c.Request.Context(), projectId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch uploads", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rows})
	}
}

func projectChartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		points, err := reports.GetProjectChartData(c.Request.Context(), projectId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch chart data", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": points})
	}
}
