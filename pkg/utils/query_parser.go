package utils

import (
	"net/url"
	"strconv"
	"strings"

	"ams-portal/pkg/types"
)

// ParseFilterFromQuery turns list-endpoint query parameters into a Filter.
// Supported shapes: filter[key]=value, sort[key]=asc|desc, search, limit,
// offset, page (page wins only when offset is absent).
func ParseFilterFromQuery(query url.Values) types.Filter {
	filter := types.Filter{
		Filter:         make(map[string]interface{}),
		Sort:           make(map[string]string),
		Limit:          10,
		Offset:         0,
		Page:           1,
		WithPagination: true,
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			filterKey := key[7 : len(key)-1]
			filter.Filter[filterKey] = values[0]
		}
		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			sortKey := key[5 : len(key)-1]
			direction := "asc"
			if strings.EqualFold(values[0], "desc") {
				direction = "desc"
			}
			filter.Sort[sortKey] = direction
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filter.Offset = o
			if filter.Limit > 0 {
				filter.Page = (o / filter.Limit) + 1
			}
		}
	}
	if pageStr := query.Get("page"); pageStr != "" && filter.Offset == 0 {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
			filter.Offset = (p - 1) * filter.Limit
		}
	}

	if search := query.Get("search"); search != "" {
		filter.Search = search
	}

	if wp := query.Get("withPagination"); wp != "" {
		filter.WithPagination = wp != "false" && wp != "0"
	}

	return filter
}
