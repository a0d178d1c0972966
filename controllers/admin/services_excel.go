package adminController

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/catalog"
	"github.com/MUHULILAMRI/Done-Fast/logger"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// serviceColumns is the sheet layout shared by export and import.
var serviceColumns = []string{
	"ID", "Title", "Description", "Price", "Category", "Icon",
	"Popular", "Features", "DeliveryTime", "Revisions", "SubOptions",
}

func servicesWorkbook(list []models.Service) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Services")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range serviceColumns {
		header.AddCell().SetValue(h)
	}
	for _, s := range list {
		f := catalog.EncodeForm(s)
		row := sheet.AddRow()
		row.AddCell().SetValue(f.ID)
		row.AddCell().SetValue(f.Title)
		row.AddCell().SetValue(f.Description)
		row.AddCell().SetInt64(f.Price)
		row.AddCell().SetValue(f.Category)
		row.AddCell().SetValue(f.Icon)
		row.AddCell().SetBool(f.Popular)
		row.AddCell().SetValue(f.Features)
		row.AddCell().SetValue(f.DeliveryTime)
		row.AddCell().SetValue(f.Revisions)
		row.AddCell().SetValue(f.SubOptions)
	}
	return file, nil
}

// GET /admin/services/export
func (h *Handler) ExportServices(c *gin.Context) {
	list, err := h.Services.All(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}
	file, err := servicesWorkbook(list)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}
	attachment(c, "services.xlsx")
	if err := file.Write(c.Writer); err != nil {
		logger.FromGin(c).Error("failed to write Excel file", zap.Error(err))
	}
}

type rowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "ya":
		return true
	}
	return false
}

func blankRow(row *xlsx.Row) bool {
	if row == nil {
		return true
	}
	for _, cell := range row.Cells {
		if strings.TrimSpace(cell.String()) != "" {
			return false
		}
	}
	return true
}

// formFromRow reads one sheet row in serviceColumns order.
func formFromRow(row *xlsx.Row) (catalog.Form, error) {
	get := func(i int) string {
		if i < len(row.Cells) {
			return strings.TrimSpace(row.Cells[i].String())
		}
		return ""
	}

	var price int64
	if raw := get(3); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return catalog.Form{}, &catalog.FormError{Field: "price", Message: "Harga harus berupa angka."}
		}
		price = int64(p)
	}

	return catalog.Form{
		ID:           get(0),
		Title:        get(1),
		Description:  get(2),
		Price:        price,
		Category:     get(4),
		Icon:         get(5),
		Popular:      parseBool(get(6)),
		Features:     get(7),
		DeliveryTime: get(8),
		Revisions:    get(9),
		SubOptions:   get(10),
	}, nil
}

// POST /admin/services/import (multipart "file")
//
// Rows go through the same form rules as the editor. A rejected row is
// reported and skipped; the other rows are still saved.
func (h *Handler) ImportServices(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
		return
	}
	defer f.Close()

	book, err := xlsx.OpenReaderAt(f, header.Size)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
		return
	}
	if len(book.Sheets) == 0 || len(book.Sheets[0].Rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
		return
	}

	created, updated := 0, 0
	rowErrors := []rowError{}
	for i, row := range book.Sheets[0].Rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		form, err := formFromRow(row)
		if err == nil {
			var svc models.Service
			if svc, err = catalog.DecodeForm(form); err == nil {
				var isNew bool
				if isNew, err = h.Services.Upsert(c.Request.Context(), svc); err == nil {
					if isNew {
						created++
					} else {
						updated++
					}
					continue
				}
				logger.FromGin(c).Error("failed to save imported service", zap.Int("row", rowNum), zap.Error(err))
			}
		}

		re := rowError{Row: rowNum, Message: err.Error()}
		if ferr, ok := err.(*catalog.FormError); ok {
			re.Field, re.Message = ferr.Field, ferr.Message
		}
		rowErrors = append(rowErrors, re)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import completed",
		"created_count": created,
		"updated_count": updated,
		"skipped_count": len(rowErrors),
		"errors":        rowErrors,
	})
}
