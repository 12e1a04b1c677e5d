package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "blogapi_category_cache_lookups_total",
	Help: "Category list cache lookups by result.",
}, []string{"result"})
