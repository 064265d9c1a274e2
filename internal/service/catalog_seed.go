package service

import "github.com/langchou/cardealer/internal/models"

// DefaultCatalog 初始品牌与车型目录
func DefaultCatalog() []models.CatalogSeed {
	return []models.CatalogSeed{
		{
			Make: models.CarMake{Name: "NISSAN", Description: "Great cars. Japanese technology"},
			Models: []models.CarModel{
				{Name: "Pathfinder", Type: models.CarTypeSUV, Year: 2023},
				{Name: "Qashqai", Type: models.CarTypeSUV, Year: 2023},
				{Name: "XTRAIL", Type: models.CarTypeSUV, Year: 2023},
			},
		},
		{
			Make: models.CarMake{Name: "Mercedes", Description: "Great cars. German technology"},
			Models: []models.CarModel{
				{Name: "A-Class", Type: models.CarTypeSUV, Year: 2023},
				{Name: "C-Class", Type: models.CarTypeSUV, Year: 2023},
				{Name: "E-Class", Type: models.CarTypeSUV, Year: 2023},
			},
		},
		{
			Make: models.CarMake{Name: "Audi", Description: "Great cars. German technology"},
			Models: []models.CarModel{
				{Name: "A4", Type: models.CarTypeSUV, Year: 2023},
				{Name: "A5", Type: models.CarTypeSUV, Year: 2023},
				{Name: "A6", Type: models.CarTypeSUV, Year: 2023},
			},
		},
		{
			Make: models.CarMake{Name: "Kia", Description: "Great cars. Korean technology"},
			Models: []models.CarModel{
				{Name: "Sorrento", Type: models.CarTypeSUV, Year: 2023},
				{Name: "Carnival", Type: models.CarTypeSUV, Year: 2023},
				{Name: "Cerato", Type: models.CarTypeSedan, Year: 2023},
			},
		},
		{
			Make: models.CarMake{Name: "Toyota", Description: "Great cars. Japanese technology"},
			Models: []models.CarModel{
				{Name: "Corolla", Type: models.CarTypeSedan, Year: 2023},
				{Name: "Camry", Type: models.CarTypeSedan, Year: 2023},
				{Name: "Kluger", Type: models.CarTypeSUV, Year: 2023},
			},
		},
	}
}
