package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// isForbidden: el bot no tiene permiso en ese guild (403 / Missing Permissions).
func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingPermissions {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}
