package http

// Login godoc
// @Summary Log in by user id
// @Description Resolves the id to a user and returns an identity token. No password is involved.
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object{customer_id=string} true "User id"
// @Success 200 {object} object{success=bool,data=object{user=object,is_admin=bool,token=string}}
// @Failure 401 {object} object{success=bool,error=string,code=string}
// @Router /api/auth/login [post]
func (h *UserHandler) LoginDoc() {}

// Register godoc
// @Summary Register a customer
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object{name=string} true "Customer name"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string,code=string}
// @Failure 409 {object} object{success=bool,error=string,code=string}
// @Router /api/auth/register [post]
func (h *UserHandler) RegisterDoc() {}

// AddUser godoc
// @Summary Add a user with a chosen id
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object{id=string,name=string,role=string} true "User"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 409 {object} object{success=bool,error=string,code=string}
// @Router /api/users [post]
func (h *UserHandler) AddUserDoc() {}

// ListUsers godoc
// @Summary List users
// @Tags Identity
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/users [get]
func (h *UserHandler) ListUsersDoc() {}
