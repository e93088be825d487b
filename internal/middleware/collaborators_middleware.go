package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/jsjcard/eventhub/internal/directory"
	"github.com/jsjcard/eventhub/internal/mailer"
)

func DirectoryMiddleware(client *directory.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("directory_client", client)
		c.Next()
	}
}

func GetDirectoryClient(c *gin.Context) *directory.Client {
	client, exists := c.Get("directory_client")
	if !exists {
		return nil
	}
	return client.(*directory.Client)
}

func MailerMiddleware(m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mailer", m)
		c.Next()
	}
}

func GetMailer(c *gin.Context) *mailer.Mailer {
	m, exists := c.Get("mailer")
	if !exists {
		return nil
	}
	return m.(*mailer.Mailer)
}
