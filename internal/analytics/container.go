package analytics

import "gorm.io/gorm"

type AnalyticsContainer struct {
	Handler  *Handler
	Service  AnalyticsService
	Recorder *Recorder
}

func NewAnalyticsContainer(db *gorm.DB, completionTimeSeconds int) *AnalyticsContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &AnalyticsContainer{
		Handler:  handler,
		Service:  service,
		Recorder: NewRecorder(completionTimeSeconds),
	}
}
