package session

import "github.com/smolina-v/go-capstone-cli/internal/models"

// Route — клиентский «экран», куда ведёт навигация после операции сессии.
type Route string

// Единая карта маршрутов. Конвенция — /{role}/dashboard: в оригинальной
// системе контроллер и страницы использовали два разных стиля путей,
// здесь оставлен тот, по которому реально лежат экраны ролей.
const (
	RouteHome               Route = "/"
	RouteLogin              Route = "/login"
	RouteDashboard          Route = "/dashboard"
	RouteAdminDashboard     Route = "/admin/dashboard"
	RouteStudentDashboard   Route = "/student/dashboard"
	RouteProfessorDashboard Route = "/professor/dashboard"
)

// RouteForRole — чистая функция роль -> маршрут.
// Неизвестная роль ведёт на общий дашборд, а не в ошибку.
func RouteForRole(role string) Route {
	switch role {
	case models.RoleAdmin:
		return RouteAdminDashboard
	case models.RoleStudent:
		return RouteStudentDashboard
	case models.RoleProfessor:
		return RouteProfessorDashboard
	default:
		return RouteDashboard
	}
}

// Navigator — приёмник навигации (аналог router.push браузерного фронта).
type Navigator interface {
	Go(route Route)
}

// NavigatorFunc — адаптер функции под Navigator.
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Go(route Route) { f(route) }
