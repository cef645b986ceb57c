package http

// ListProducts godoc
// @Summary List products
// @Description List the catalog, optionally filtered by name and category and sorted by name
// @Tags Catalog
// @Produce json
// @Param search query string false "Case-insensitive name filter"
// @Param category query string false "Category id or 'all'"
// @Param sort query string false "asc or desc by name"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products [get]
func (h *CatalogHandler) ListProductsDoc() {}

// CreateProduct godoc
// @Summary Create a product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body object{name=string,price=number,image_url=string,stock=int,description=string,category_id=string} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,code=string}
// @Router /api/products [post]
func (h *CatalogHandler) CreateProductDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string,code=string}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Description Merge the provided fields into the product
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{name=string,price=number,image_url=string,stock=int,description=string,category_id=string} true "Fields to change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,code=string}
// @Failure 404 {object} object{success=bool,error=string,code=string}
// @Router /api/products/{id} [patch]
func (h *CatalogHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Deleting an unknown product succeeds
// @Tags Catalog
// @Param id path string true "Product ID"
// @Success 204
// @Router /api/products/{id} [delete]
func (h *CatalogHandler) DeleteProductDoc() {}

// GetStats godoc
// @Summary Catalog statistics
// @Tags Catalog
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/products/stats [get]
func (h *CatalogHandler) GetStatsDoc() {}

// Categories godoc
// @Summary List, create and delete categories
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body object{name=string} false "Category data (POST)"
// @Success 200 {object} object{success=bool,data=array}
// @Success 201 {object} object{success=bool,data=object}
// @Router /api/categories [get]
// @Router /api/categories [post]
func (h *CatalogHandler) CategoriesDoc() {}

// AdjustStock godoc
// @Summary Adjust product stock
// @Description Adds a signed delta to the stock. The stock never drops below zero.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{delta=int} true "Stock delta"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string,code=string} "insufficient_stock"
// @Router /api/products/{id}/stock [post]
func (h *CatalogHandler) AdjustStockDoc() {}
