package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/tracker"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importResponsePayload struct {
	Imported tracker.ImportResult `json:"imported"`
	Error    string               `json:"error,omitempty"`
}

type themeRequestPayload struct {
	Theme  string `json:"theme"`
	Toggle bool   `json:"toggle"`
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (h *httpHandler) handleStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *httpHandler) handleExport(c *gin.Context) {
	document, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	attachment(c, "jigong-export-"+records.FormatDate(document.ExportDate)+".json")
	c.IndentedJSON(http.StatusOK, document)
}

func (h *httpHandler) handleExportContacts(c *gin.Context) {
	contacts, err := h.service.ExportContacts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

func (h *httpHandler) handleExportWorkbook(c *gin.Context) {
	var buffer bytes.Buffer
	if err := h.service.ExportWorkbook(c.Request.Context(), &buffer); err != nil {
		h.writeError(c, err)
		return
	}
	attachment(c, "jigong.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buffer.Bytes())
}

// handleImport applies an export document. On failure the body still reports what was written
// before the failing record.
func (h *httpHandler) handleImport(c *gin.Context) {
	var document tracker.ExportDocument
	if err := c.ShouldBindJSON(&document); err != nil {
		invalidRequest(c, "invalid_document")
		return
	}
	result, err := h.service.Import(c.Request.Context(), document)
	if err != nil {
		status, code := h.errorResponse(c, err)
		c.AbortWithStatusJSON(status, importResponsePayload{Imported: result, Error: code})
		return
	}
	c.JSON(http.StatusOK, importResponsePayload{Imported: result})
}

func (h *httpHandler) handleWipe(c *gin.Context) {
	if err := h.service.WipeAll(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleGetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.theme.Current()})
}

// handleSetTheme sets {"theme": "light"|"dark"} or flips the theme with {"toggle": true}.
func (h *httpHandler) handleSetTheme(c *gin.Context) {
	var request themeRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	if request.Toggle {
		c.JSON(http.StatusOK, gin.H{"theme": h.theme.Toggle()})
		return
	}
	if strings.TrimSpace(request.Theme) == "" {
		invalidRequest(c, "missing_theme")
		return
	}
	current, err := h.theme.Set(request.Theme)
	if err != nil {
		invalidRequest(c, "unknown_theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": current})
}
