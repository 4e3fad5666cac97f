package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/onionkit/component"
	"github.com/kbukum/onionkit/logger"
)

// InfrastructureInfo holds detailed infrastructure component information,
// collected from components implementing Describable.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "tracer", "meter", "loader"
	Details string
}

// PipelineInfo records a composed pipeline for the startup summary.
type PipelineInfo struct {
	Name   string
	Stages int
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	pipelines       []PipelineInfo
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		pipelines:   make([]PipelineInfo, 0),
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackPipeline records a composed pipeline.
func (s *Summary) TrackPipeline(name string, stages int) {
	s.pipelines = append(s.pipelines, PipelineInfo{Name: name, Stages: stages})
}

// DisplaySummary prints the bootstrap summary. Infrastructure details and
// live health are collected from the component registry.
func (s *Summary) DisplaySummary(registry *component.Registry, log *logger.Logger) {
	fmt.Printf("\n")
	fmt.Printf("🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	infrastructure := collectInfrastructure(registry)
	if len(infrastructure) > 0 {
		fmt.Printf("📊 Infrastructure\n")
		for i, inf := range infrastructure {
			prefix := "├──"
			if i == len(infrastructure)-1 {
				prefix = "└──"
			}
			details := inf.Details
			if details == "" {
				details = inf.Type
			}
			fmt.Printf("   %s %s: %s\n", prefix, inf.Name, details)
		}
		fmt.Printf("\n")
	}

	if len(s.pipelines) > 0 {
		fmt.Printf("🔗 Pipelines (%d)\n", len(s.pipelines))
		for i, p := range s.pipelines {
			prefix := "├──"
			if i == len(s.pipelines)-1 {
				prefix = "└──"
			}
			fmt.Printf("   %s %s (%d stages)\n", prefix, p.Name, p.Stages)
		}
		fmt.Printf("\n")
	}

	if registry != nil {
		healthResults := registry.HealthAll(context.Background())
		if len(healthResults) > 0 {
			fmt.Printf("🏥 Health Check\n")
			healthy := 0
			for i, h := range healthResults {
				prefix := "├──"
				if i == len(healthResults)-1 {
					prefix = "└──"
				}
				icon := healthStatusIcon(h.Status)
				msg := ""
				if h.Message != "" {
					msg = fmt.Sprintf(" (%s)", h.Message)
				}
				fmt.Printf("   %s %s %s: %s%s\n", prefix, icon, h.Name, strings.ToLower(string(h.Status)), msg)
				if h.Status == component.StatusHealthy {
					healthy++
				}
			}
			total := len(healthResults)
			if healthy == total {
				fmt.Printf("\n✅ All components healthy (%d/%d)\n", healthy, total)
			} else {
				fmt.Printf("\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, total)
			}
		} else {
			fmt.Printf("   └── No components registered\n")
		}
	}

	fmt.Printf("\n")
}

// collectInfrastructure gathers descriptions from Describable components.
func collectInfrastructure(registry *component.Registry) []InfrastructureInfo {
	if registry == nil {
		return nil
	}
	var infra []InfrastructureInfo
	for _, c := range registry.All() {
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		infra = append(infra, InfrastructureInfo{
			Name:    desc.Name,
			Type:    desc.Type,
			Details: desc.Details,
		})
	}
	return infra
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
