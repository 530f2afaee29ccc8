package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/api/validator"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CategoriesHandler serves the category tree. Top-level categories and
// subcategories share one resource; subcategory routes carry the parent id.
type CategoriesHandler struct {
	categories *service.CategoryService
	validator  *validator.Validator
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService, v *validator.Validator) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, validator: v}
}

// List GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return err
	}
	q, err := bindListQuery(c, h.validator)
	if err != nil {
		return err
	}
	page, err := h.categories.List(c.UserContext(), caller, q.ToService())
	if err != nil {
		return err
	}
	return ok(c, dto.MapPage(page, dto.ToCategoryResponse))
}

// ListByType GET /categories/type/:type.
func (h *CategoriesHandler) ListByType(c *fiber.Ctx) error {
	items, err := h.categories.ListByKind(c.UserContext(), c.Params("type"))
	if err != nil {
		return err
	}
	return ok(c, dto.MapSlice(items, dto.ToCategoryResponse))
}

// ListSubcategories GET /categories/subcategories/:parentId.
func (h *CategoriesHandler) ListSubcategories(c *fiber.Ctx) error {
	parentID, err := idParam(c, "parentId")
	if err != nil {
		return err
	}
	items, err := h.categories.ListSubcategories(c.UserContext(), parentID)
	if err != nil {
		return err
	}
	return ok(c, dto.MapSlice(items, dto.ToCategoryResponse))
}

// Get GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	category, err := h.categories.GetByID(c.UserContext(), id, c.QueryBool("deleted"))
	if err != nil {
		return err
	}
	return ok(c, dto.ToCategoryResponse(category))
}

// Create POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"message": service.MsgCategoryCreated, "category": dto.ToCategoryResponse(category)})
}

// CreateSubcategory POST /categories/:parentId/subcategory.
func (h *CategoriesHandler) CreateSubcategory(c *fiber.Ctx) error {
	parentID, err := idParam(c, "parentId")
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	sub, err := h.categories.CreateSubcategory(c.UserContext(), parentID, req.Name)
	if err != nil {
		return err
	}
	return created(c, fiber.Map{"message": service.MsgSubcategoryCreated, "category": dto.ToCategoryResponse(sub)})
}

// Update PUT /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	category, err := h.categories.Update(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": service.MsgCategoryUpdated, "category": dto.ToCategoryResponse(category)})
}

// UpdateSubcategory PUT /categories/:id/:parentId/subcategory.
func (h *CategoriesHandler) UpdateSubcategory(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	parentID, err := idParam(c, "parentId")
	if err != nil {
		return err
	}
	var req dto.NameRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	sub, err := h.categories.UpdateSubcategory(c.UserContext(), id, parentID, req.Name)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"message": service.MsgSubcategoryUpdated, "category": dto.ToCategoryResponse(sub)})
}

// ChangeStatus PUT /categories/:id/change-status.
func (h *CategoriesHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	msg, err := h.categories.ChangeStatus(c.UserContext(), id, *req.Status)
	if err != nil {
		return err
	}
	return message(c, msg)
}

// Delete DELETE /categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	msg, err := h.categories.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return message(c, msg)
}

// Restore POST /categories/:id.
func (h *CategoriesHandler) Restore(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	msg, err := h.categories.Restore(c.UserContext(), id)
	if err != nil {
		return err
	}
	return message(c, msg)
}
