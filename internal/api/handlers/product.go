package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"cosmetics-store-backend/internal/api/middleware"
	"cosmetics-store-backend/internal/models"
	service "cosmetics-store-backend/internal/services"
	"cosmetics-store-backend/internal/utils"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct godoc
//	@Summary		Create a new product
//	@Description	Adds a product to the catalog. Requires authentication.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product				"Successfully created product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created successfully", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

// GetProduct godoc
//	@Summary		Get a product by ID
//	@Description	Retrieves details for a single catalog product.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product			"Successfully retrieved product"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", id.String()))

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product retrieved successfully")
		response.Success(w, http.StatusOK, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Updates catalog fields of an existing product. Requires authentication.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to update"
//	@Success		200		{object}	models.Product				"Successfully updated product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or invalid product ID"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", id.String()))

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated successfully")
		response.Success(w, http.StatusOK, product)
	}
}

// ListProducts godoc
//	@Summary		List products with pagination
//	@Description	Retrieves a paginated list of active catalog products.
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int												false	"Page number for pagination (default: 1)"			minimum(1)
//	@Param			pageSize	query		int												false	"Number of items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Product}	"Successfully retrieved list of products"
//	@Failure		500			{object}	response.ErrorResponse							"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		logger = logger.With(slog.Int("page", page), slog.Int("pageSize", pageSize))

		products, total, err := h.productService.ListProducts(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Products listed successfully", slog.Int("count", len(products)), slog.Int("total", total))
		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     products,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}
