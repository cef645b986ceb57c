package http

// CreateOrder godoc
// @Summary Place an order
// @Description Reserves stock for every line and stores the order as pending. The total is recomputed server side.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body object{customer_id=string,items=array,total=number,pickup_date=string,pickup_time=string} true "Order"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,code=string}
// @Failure 409 {object} object{success=bool,error=string,code=string} "insufficient_stock"
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrderDoc() {}

// ListOrders godoc
// @Summary List orders
// @Description Staff get every order oldest first; customers get their own newest first. Without customer_id the bearer token identity is used.
// @Tags Orders
// @Produce json
// @Param customer_id query string false "Requesting user id"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string,code=string}
// @Router /api/orders [get]
func (h *OrderHandler) ListOrdersDoc() {}

// UpdateStatus godoc
// @Summary Change an order's status
// @Description Forward moves and cancellation before completion are allowed. Cancelling returns the stock.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body object{status=string} true "pending, packed, ready, completed or cancelled"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string,code=string}
// @Failure 404 {object} object{success=bool,error=string,code=string}
// @Failure 409 {object} object{success=bool,error=string,code=string} "invalid_transition"
// @Router /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatusDoc() {}

// CancelOrder godoc
// @Summary Cancel own pending order
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body object{customer_id=string} false "Owner id (or bearer token)"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string,code=string}
// @Router /api/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrderDoc() {}
