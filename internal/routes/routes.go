package routes

const (
	Health = "/api/health"

	AdminLogin = "/api/admin/login"

	Orders = "/api/orders"

	Projects = "/api/projects"
	Project  = "/api/projects/{id:[0-9]+}"
)
