package main

// General API documentation for swaggo. Regenerate docs with
// `swag init -g cmd/predictd/docs.go -o internal/docs`.
//
// @title           predictd API
// @version         1.0
// @description     HTTP API serving predictions from a pre-trained classification model.
//
// @BasePath  /
//
// @schemes http
