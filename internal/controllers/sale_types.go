package controllers

import "github.com/salonspa/backend/internal/models"

type StatusEditable struct {
	Status models.AppointmentStatus `json:"estado" binding:"required" example:"completed"`
}

type SuggestionEditable struct {
	Message string `json:"mensaje" example:"Sería bueno poder reservar los domingos"`
}
