package repository

import "github.com/tallerpro/taller-api/internal/domain/entity"

// ServiceRepository define el puerto de persistencia para servicios del catálogo.
type ServiceRepository interface {
	Create(s *entity.Service) error
	GetByID(id int64) (*entity.Service, error)
	List(q string, limit, offset int) ([]*entity.Service, error)
	Update(s *entity.Service) error
	Delete(id int64) error
}
