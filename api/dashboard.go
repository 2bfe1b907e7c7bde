package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/brightpath-it/backoffice/storage/model"
)

type kindSummary struct {
	Total    int64                  `json:"total"`
	ByStatus map[model.Status]int64 `json:"byStatus"`
}

type dashboardData struct {
	Requests map[string]kindSummary `json:"requests"`
	Catalog  map[string]int         `json:"catalog"`
}

func registerDashboard(r fiber.Router, backs model.Backends, admin fiber.Handler) {
	r.Get(
		"/dashboard", admin, func(c *fiber.Ctx) error {
			data, err := dashboard(backs)
			if err != nil {
				return RespondError(c, err)
			}
			return respond(c, fiber.StatusOK, data)
		},
	)
}

func dashboard(backs model.Backends) (*dashboardData, error) {
	data := &dashboardData{
		Requests: make(map[string]kindSummary, len(model.Kinds)),
		Catalog:  make(map[string]int, 3),
	}
	for _, kind := range model.Kinds {
		store := backs.RequestStoreFor(kind)
		if store == nil {
			continue
		}
		stats, err := store.Stats()
		if err != nil {
			return nil, err
		}
		summary := kindSummary{ByStatus: stats}
		for _, n := range stats {
			summary.Total += n
		}
		data.Requests[kind.Name] = summary
	}
	catalogs := []struct {
		name string
		size func() (int, error)
	}{
		{"services", func() (int, error) { return catalogSize(backs.Services) }},
		{"trainings", func() (int, error) { return catalogSize(backs.Trainings) }},
		{"careers", func() (int, error) { return catalogSize(backs.Careers) }},
	}
	for _, catalog := range catalogs {
		n, err := catalog.size()
		if err != nil {
			return nil, err
		}
		data.Catalog[catalog.name] = n
	}
	return data, nil
}

func catalogSize[T model.CatalogItem](store model.CatalogStore[T]) (int, error) {
	if store == nil {
		return 0, nil
	}
	items, err := store.List(model.CatalogFilter{})
	return len(items), err
}
