package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/plantid/docs.go -o docs`.
//
// @title           plantid API
// @version         1.0
// @description     Upload a plant image and receive the predicted class label and confidence.
//
// @contact.name   plantid maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
