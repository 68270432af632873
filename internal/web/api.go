package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *WebServer) listRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"recipes": s.Store.List(),
	})
}

func (s *WebServer) getRecipe(c *gin.Context) {
	id := c.Param("id")
	recipe, ok := s.Store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}
