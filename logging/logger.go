package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Environment variable name for controlling statistics visibility
const ENV_DEV_MODE = "DEV_MODE"

// Statistics represents the collected request statistics
type Statistics struct {
	UniqueVisitors  map[string]time.Time `json:"uniqueVisitors"`  // IP -> Last Visit Time
	AuditRequests   int                  `json:"auditRequests"`   // Total number of domain audit requests
	ExtractRequests int                  `json:"extractRequests"` // Total number of pricing extraction requests
	ErrorCount      int                  `json:"errorCount"`      // Number of errors
	PopularDomains  map[string]int       `json:"popularDomains"`  // Domain -> Count
	AverageLoadTime float64              `json:"averageLoadTime"` // Average request time in milliseconds
	TotalLoadTime   float64              `json:"-"`               // Used to calculate average
	RequestCount    int                  `json:"-"`               // Used to calculate average
	LastPersisted   time.Time            `json:"lastPersisted"`   // Last time stats were saved
	mutex           sync.RWMutex         `json:"-"`
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates or loads the statistics
func Initialize() *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors: make(map[string]time.Time),
			PopularDomains: make(map[string]int),
			LastPersisted:  time.Now(),
		}

		// Try to load existing statistics
		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanDomain filters out local and obviously junk domains before tracking
func cleanDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" ||
		strings.Contains(domain, "localhost") ||
		strings.Contains(domain, "127.0.0.1") {
		return ""
	}
	return domain
}

// TrackAudit records a domain audit request
func (s *Statistics) TrackAudit(domain string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AuditRequests++

	// Only track non-empty domains (those that passed our filtering)
	if cleaned := cleanDomain(domain); cleaned != "" {
		s.PopularDomains[cleaned]++
	}

	if hasError {
		s.ErrorCount++
	}

	// Update average load time
	s.TotalLoadTime += loadTime
	s.RequestCount++
	s.AverageLoadTime = s.TotalLoadTime / float64(s.RequestCount)
}

// TrackExtraction records a pricing extraction request
func (s *Statistics) TrackExtraction(hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ExtractRequests++
	if hasError {
		s.ErrorCount++
	}
}

// uniqueVisitorsCount counts visitors from the last 24 hours. Caller must hold the lock.
func (s *Statistics) uniqueVisitorsCount() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.uniqueVisitorsCount()
}

// popularDomains returns the top N most audited domains. Caller must hold the lock.
func (s *Statistics) popularDomains(n int) map[string]int {
	result := make(map[string]int)
	count := 0

	// Simple implementation - for production, use a heap or sorted data structure
	for domain, freq := range s.PopularDomains {
		if count < n {
			result[domain] = freq
			count++
		}
	}

	return result
}

// GetPopularDomains returns the top N most audited domains
func (s *Statistics) GetPopularDomains(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.popularDomains(n)
}

// errorRate computes the error rate as a percentage. Caller must hold the lock.
func (s *Statistics) errorRate() float64 {
	total := s.AuditRequests + s.ExtractRequests
	if total == 0 {
		return 0
	}

	return (float64(s.ErrorCount) / float64(total)) * 100
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.errorRate()
}

// Save persists the statistics to a file
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create("statistics.json")
	if err != nil {
		return fmt.Errorf("could not create statistics file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %v", err)
	}

	return nil
}

// Load reads the statistics from a file
func (s *Statistics) Load() error {
	file, err := os.Open("statistics.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %v", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %v", err)
	}

	return nil
}

// GetStatistics returns a copy of the current statistics, but only in development mode
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	// Check if we're in development mode
	if os.Getenv(ENV_DEV_MODE) != "true" {
		// In production, return limited statistics without sensitive data
		return map[string]interface{}{
			"uniqueVisitors24h": s.uniqueVisitorsCount(),
			"totalAudits":       s.AuditRequests,
			"totalExtractions":  s.ExtractRequests,
			"errorRate":         s.errorRate(),
			"averageLoadTime":   s.AverageLoadTime,
		}
	}

	// In development mode, return full statistics
	return map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsCount(),
		"totalAudits":       s.AuditRequests,
		"totalExtractions":  s.ExtractRequests,
		"errorRate":         s.errorRate(),
		"averageLoadTime":   s.AverageLoadTime,
		"popularDomains":    s.popularDomains(5), // Top 5 domains only shown in dev mode
	}
}
