// @title           CareBook API
// @version         1.0
// @description     Membership and subscription pricing API for the CareBook booking platform.
// @contact.name    CareBook Platform
// @contact.email   support@carebook.example
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "carebook_backend/internal/app"

func main() {
	app.Run()
}
