package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hacktivity/internal/middleware"
	"hacktivity/internal/models"
	"hacktivity/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler lets users download their own content.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

// ExportXLSX streams the caller's posts as a spreadsheet.
// GET /auth/user/export/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var posts []models.Post
	err := h.DB.Preload("Likes").
		Where("author_id = ?", principal.ID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"Title", "Slug", "Content", "Published", "Likes", "Created"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, p := range posts {
		values := []any{
			p.Title,
			p.Slug,
			p.Content,
			p.Published,
			len(p.Likes),
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		// headers are already out, nothing sensible left to send
		return
	}
}

// ExportCSV streams the caller's posts as CSV.
// GET /auth/user/export/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	principal := middleware.CurrentUser(c)

	var posts []models.Post
	err := h.DB.Preload("Likes").
		Where("author_id = ?", principal.ID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		util.Fail(c, http.StatusInternalServerError, "Something went wrong!")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet software detects the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Title", "Slug", "Content", "Published", "Likes", "Created"})
	for _, p := range posts {
		writer.Write([]string{
			p.Title,
			p.Slug,
			p.Content,
			strconv.FormatBool(p.Published),
			strconv.Itoa(len(p.Likes)),
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
}
