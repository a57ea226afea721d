package http

import "nodeboard/internal/web"

func pageHeader(title, version string) web.HeaderData {
	return web.HeaderData{Title: title, Version: version}
}
