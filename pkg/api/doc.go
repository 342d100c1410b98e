// Package api serves surveys over HTTP.
//
// JSON endpoints create surveys, record responses and report results.
// HTML pages for listing, taking and reviewing surveys are rendered from
// embedded templates with the template engine in balanced nesting mode;
// every user-supplied string is passed through a bluemonday strict policy
// before it enters the render context.
//
// Routes:
//
//	GET  /surveys                    list surveys
//	POST /create-survey              create a survey (JSON or form)
//	GET  /survey/{id}                fetch one survey
//	POST /survey/{id}/submit         record answers (JSON or form)
//	GET  /survey/{id}/results        title and responses
//	GET  /health                     liveness
//	GET  /metrics                    Prometheus text metrics
//	GET  /                           survey list page
//	GET  /survey/{id}/take           answer form page
//	GET  /survey/{id}/results/view   results page
//
// Form posts from a browser (Accept: text/html) are answered with a
// redirect to the matching page instead of JSON.
package api
