// Package chat_controller answers guest questions by keyword-matching
// against the Chatbot_Training tab. No external model; the innkeeper
// curates the answers in the spreadsheet.
package chat_controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/logger"
	"github.com/riaddisiena/backend/models/content_models"
	"github.com/riaddisiena/backend/store"
)

const fallbackReply = "I'm not sure about that one — drop us a line at happy@riaddisiena.com and the innkeeper will get back to you."

// minScore is the threshold below which a match is considered noise.
const minScore = 2

type ChatController struct {
	Store store.Tables
}

func NewChatController(tables store.Tables) *ChatController {
	return &ChatController{Store: tables}
}

type chatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// Chat serves POST /chat.
func (cc *ChatController) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	rows, err := cc.Store.ReadTable(c.Request.Context(), "Chatbot_Training")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching chat training data: %v", err)
		c.JSON(http.StatusOK, gin.H{"reply": fallbackReply, "matched": false})
		return
	}

	var training []content_models.TrainingItem
	for _, rec := range store.RowsToRecords(rows) {
		training = append(training, content_models.TrainingFromRecord(rec))
	}

	best, score := bestMatch(req.Message, training)
	if score < minScore {
		c.JSON(http.StatusOK, gin.H{"reply": fallbackReply, "matched": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":    best.LocalizedAnswer(strings.ToLower(req.Language)),
		"matched":  true,
		"category": best.Category,
	})
}

// bestMatch scores each training item: 3 per keyword contained in the
// query, 1 per overlapping question word longer than 2 chars, 2 when the
// query mentions the category.
func bestMatch(query string, training []content_models.TrainingItem) (content_models.TrainingItem, int) {
	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	var best content_models.TrainingItem
	bestScore := 0

	for _, item := range training {
		score := 0

		for _, keyword := range item.Keywords {
			if keyword != "" && strings.Contains(queryLower, keyword) {
				score += 3
			}
		}

		questionWords := strings.Fields(strings.ToLower(item.Question))
		for _, word := range queryWords {
			if len(word) <= 2 {
				continue
			}
			for _, qw := range questionWords {
				if strings.Contains(qw, word) || strings.Contains(word, qw) {
					score++
					break
				}
			}
		}

		if item.Category != "" && strings.Contains(queryLower, strings.ToLower(item.Category)) {
			score += 2
		}

		if score > bestScore {
			bestScore = score
			best = item
		}
	}
	return best, bestScore
}
