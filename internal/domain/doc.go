// Package domain models the weather lookup contract shared by the backend
// service and the terminal widget.
//
// # Wire Contract
//
// The backend exposes a single lookup endpoint:
//
//	GET /weather?city=<name>
//
// On success it returns a JSON object with at least:
//
//	{"city": "London", "temperature": 15, "description": "Cloudy"}
//
// Temperature is always degrees Celsius (the upstream call requests metric
// units). Extra fields are ignored by clients; missing fields decode to zero
// values and flow into the rendered view unguarded.
//
// # Upstream Source
//
// Weather data comes from the OpenWeatherMap current weather API
// (https://openweathermap.org/current). The backend maps the upstream
// response fields name, main.temp, and weather[0].description onto the wire
// contract, capitalizing the description ("light rain" -> "Light rain").
//
// # Failure Collapsing
//
// The widget deliberately collapses every failure kind — unreachable backend,
// non-2xx status, malformed body — into the single user-facing message
// [LookupFailedMessage]. Clients that need to distinguish failure causes must
// not exist; the contract offers no signal to build them on.
package domain
