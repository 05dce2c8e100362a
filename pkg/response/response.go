package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

// The wire contract is flat: writes answer {"message": ...} (creates add
// "id"), reads answer the raw record, the raw list, or {"<entity>": [...],
// "total": N}, and every non-2xx body is {"error": ...} with optional
// diagnostic fields. Clients branch on the shape they requested.

// Message sends a plain success body.
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Created responds with HTTP 201 and the new record id.
func Created(c *gin.Context, msg string, id string) {
	c.JSON(http.StatusCreated, gin.H{"message": msg, "id": id})
}

// Record sends a single record, or a JSON null when absent.
func Record(c *gin.Context, record interface{}) {
	c.JSON(http.StatusOK, record)
}

// List sends an unkeyed full list.
func List(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, items)
}

// Page sends a paginated list keyed by entity name alongside the total
// unfiltered count.
func Page(c *gin.Context, key string, items interface{}, total int) {
	c.JSON(http.StatusOK, gin.H{key: items, "total": total})
}

// Error converts err into the flat error body and matching status code.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := gin.H{"error": appErr.Message}
	for k, v := range appErr.Details {
		body[k] = v
	}
	c.JSON(appErr.Status, body)
}
