// Package docs provides Swagger documentation for the API.
package docs

// @title Campaign Mailer API
// @version 1.0
// @description Email template, recipient and campaign dispatch API with campaign logs
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@one-green.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:4000
// @BasePath /
// @schemes http https
