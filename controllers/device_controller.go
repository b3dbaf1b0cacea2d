package controllers

import (
	"net/http"

	"github.com/HTW-PMA/Kantino-App-grp12/config"
	"github.com/HTW-PMA/Kantino-App-grp12/models"
	"github.com/HTW-PMA/Kantino-App-grp12/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterDevice creates an anonymous device identity and returns its
// long-lived token. There are no accounts; the device id is the user.
func RegisterDevice(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	// Body is optional.
	_ = c.ShouldBindJSON(&body)

	deviceID := uuid.NewString()
	if err := config.DB.Create(&models.Device{DeviceID: deviceID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if body.Name != "" {
		if err := deps.Preferences.SetName(deviceID, body.Name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	token, err := utils.GenerateDeviceJWT(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"deviceId": deviceID, "token": token})
}

// GetProfile returns name, selected canteen and preference tags.
func GetProfile(c *gin.Context) {
	deviceID := c.GetString("deviceID")
	profile, err := deps.Preferences.Profile(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile patches the profile. Absent fields stay untouched, empty
// strings clear the value.
func UpdateProfile(c *gin.Context) {
	var body struct {
		Name          *string   `json:"name"`
		SelectedMensa *string   `json:"selectedMensa"`
		Preferences   *[]string `json:"preferences"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := c.GetString("deviceID")
	if body.Name != nil {
		var err error
		if *body.Name == "" {
			err = deps.Preferences.RemoveName(deviceID)
		} else {
			err = deps.Preferences.SetName(deviceID, *body.Name)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if body.SelectedMensa != nil {
		var err error
		if *body.SelectedMensa == "" {
			err = deps.Preferences.RemoveSelectedMensa(deviceID)
		} else {
			err = deps.Preferences.SetSelectedMensa(deviceID, *body.SelectedMensa)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if body.Preferences != nil {
		if _, err := deps.Preferences.SetPreferences(deviceID, *body.Preferences); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	profile, err := deps.Preferences.Profile(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
