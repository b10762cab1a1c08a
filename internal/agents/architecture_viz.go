package agents

import (
	"fmt"
	"strings"
)

// generateVisualizationData builds the two-layer rendering payload the
// frontend consumes: D3 nodes and links, layer groupings, and Mermaid
// diagrams.
func generateVisualizationData(design map[string]any) map[string]any {
	components := getSlice(design, "components")
	connections := getSlice(design, "connections")
	systemOverview := getMap(design, "system_overview")
	deploymentArch := getMap(design, "deployment_architecture")

	nodes := make([]any, 0, len(components))
	for i, entry := range components {
		component, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		vizMetadata := getMap(component, "visualization_metadata")

		id := getString(component, "id")
		if id == "" {
			id = fmt.Sprintf("component_%d", i)
		}
		name := getString(component, "name")
		if name == "" {
			name = fmt.Sprintf("Component %d", i+1)
		}
		componentType := getStringDefault(component, "type", "service")

		nodes = append(nodes, map[string]any{
			"id":          id,
			"name":        name,
			"type":        componentType,
			"description": getString(component, "description"),
			"technology":  getString(component, "technology"),
			"group":       componentGroup(componentType),

			"visual_importance":    getFloat(vizMetadata, "visual_importance", 5),
			"business_criticality": getStringDefault(vizMetadata, "business_criticality", "medium"),
			"icon_category":        getStringDefault(vizMetadata, "icon_category", "backend"),
			"technology_badges":    getSlice(vizMetadata, "technology_badges"),
			"layer_assignments":    getMap(vizMetadata, "layer_assignments"),
			"health_indicators":    getMap(vizMetadata, "health_indicators"),

			"system_overview_position": systemOverviewPosition(component, systemOverview, i),
			"deployment_position":      deploymentPosition(component, deploymentArch, i),
		})
	}

	links := make([]any, 0, len(connections))
	for _, entry := range connections {
		connection, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		vizMetadata := getMap(connection, "visualization_metadata")

		links = append(links, map[string]any{
			"source":      getString(connection, "from_component"),
			"target":      getString(connection, "to_component"),
			"type":        getStringDefault(connection, "connection_type", "http"),
			"description": getString(connection, "description"),
			"data_flow":   getStringDefault(connection, "data_flow", "request_response"),

			"protocol_display":    getStringDefault(vizMetadata, "protocol_display", "HTTP/REST"),
			"traffic_volume":      getStringDefault(vizMetadata, "traffic_volume", "medium"),
			"latency_requirement": getStringDefault(vizMetadata, "latency_requirement", "near_real_time"),
			"security_level":      getStringDefault(vizMetadata, "security_level", "medium"),
			"dependency_strength": getStringDefault(vizMetadata, "dependency_strength", "important"),
			"line_style":          getStringDefault(vizMetadata, "line_style", "solid"),
			"animation_type":      getStringDefault(vizMetadata, "animation_type", "unidirectional"),
		})
	}

	layerData := map[string]any{
		"system_overview": map[string]any{
			"business_capabilities": getSlice(systemOverview, "business_capabilities"),
			"core_systems":          getSlice(systemOverview, "core_systems"),
			"external_integrations": getSlice(systemOverview, "external_integrations"),
			"data_domains":          getSlice(systemOverview, "data_domains"),
			"layout_type":           "business_capability",
			"grouping_strategy":     "by_capability",
		},
		"deployment": map[string]any{
			"infrastructure_zones": getSlice(deploymentArch, "infrastructure_zones"),
			"container_clusters":   getSlice(deploymentArch, "container_clusters"),
			"network_topology":     getMap(deploymentArch, "network_topology"),
			"layout_type":          "infrastructure_zones",
			"grouping_strategy":    "by_zone",
		},
	}

	mermaid := generateMermaidDiagram(components, connections)
	mermaidDiagrams := map[string]any{
		"system_overview": mermaid,
		"deployment":      mermaid,
	}

	return map[string]any{
		"d3_data": map[string]any{
			"nodes": nodes,
			"links": links,
		},
		"layer_data":       layerData,
		"mermaid_diagrams": mermaidDiagrams,
		"diagram_types":    []any{"system_overview", "deployment"},
		"layout_options":   []any{"business_capability", "infrastructure_zones", "hierarchical"},
		"visualization_metadata": map[string]any{
			"total_components":         len(components),
			"total_connections":        len(connections),
			"complexity_score":         complexityScore(len(components), len(connections)),
			"recommended_default_view": "system_overview",
		},
	}
}

var componentTypeGroups = map[string]int{
	"service":  1,
	"database": 2,
	"gateway":  3,
	"cache":    4,
	"queue":    5,
	"frontend": 6,
	"external": 7,
}

func componentGroup(componentType string) int {
	if group, ok := componentTypeGroups[componentType]; ok {
		return group
	}
	return 1
}

// systemOverviewPosition places a component near its business capability
// cluster, falling back to a grid layout.
func systemOverviewPosition(component, systemOverview map[string]any, index int) map[string]any {
	capabilities := getSlice(systemOverview, "business_capabilities")
	componentID := getString(component, "id")

	for capIndex, entry := range capabilities {
		capability, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for _, member := range toStringSlice(getSlice(capability, "components")) {
			if member == componentID {
				return map[string]any{
					"x":        200 + capIndex*300,
					"y":        150,
					"priority": getStringDefault(capability, "priority", "medium"),
				}
			}
		}
	}

	return map[string]any{
		"x":        100 + (index%3)*250,
		"y":        100 + (index/3)*200,
		"priority": "medium",
	}
}

// deploymentPosition places a component inside its infrastructure zone,
// falling back to a grid layout.
func deploymentPosition(component, deploymentArch map[string]any, index int) map[string]any {
	zones := getSlice(deploymentArch, "infrastructure_zones")
	componentID := getString(component, "id")

	for zoneIndex, entry := range zones {
		zone, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for _, member := range toStringSlice(getSlice(zone, "components")) {
			if member == componentID {
				y := 150
				if getString(zone, "security_level") == "high" {
					y = 100
				}
				return map[string]any{
					"x":    150 + zoneIndex*200,
					"y":    y,
					"zone": getStringDefault(zone, "zone", "application"),
				}
			}
		}
	}

	return map[string]any{
		"x":    100 + (index%4)*200,
		"y":    100 + (index/4)*150,
		"zone": "application",
	}
}

// complexityScore bands component and connection counts into a 1-10 score.
func complexityScore(componentCount, connectionCount int) int {
	switch {
	case componentCount <= 3 && connectionCount <= 3:
		return 1
	case componentCount <= 6 && connectionCount <= 8:
		return 3
	case componentCount <= 10 && connectionCount <= 15:
		return 5
	case componentCount <= 15 && connectionCount <= 25:
		return 7
	default:
		return 10
	}
}

func generateMermaidDiagram(components, connections []any) string {
	lines := []string{"graph TD"}

	for _, entry := range components {
		component, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := getString(component, "id")
		name := getString(component, "name")

		switch getStringDefault(component, "type", "service") {
		case "database":
			lines = append(lines, fmt.Sprintf("    %s[(%s)]", id, name))
		case "gateway":
			lines = append(lines, fmt.Sprintf("    %s{%s}", id, name))
		case "queue":
			lines = append(lines, fmt.Sprintf("    %s>%s]", id, name))
		default:
			lines = append(lines, fmt.Sprintf("    %s[%s]", id, name))
		}
	}

	for _, entry := range connections {
		connection, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		from := getString(connection, "from_component")
		to := getString(connection, "to_component")

		if getStringDefault(connection, "connection_type", "http") == "message_queue" {
			lines = append(lines, fmt.Sprintf("    %s -.-> %s", from, to))
		} else {
			lines = append(lines, fmt.Sprintf("    %s --> %s", from, to))
		}
	}

	return strings.Join(lines, "\n")
}

// fallbackArchitecture is the design returned when generation or parsing
// fails with no prior design to preserve: a three-tier layout with an API
// gateway in front.
func fallbackArchitecture() map[string]any {
	return map[string]any{
		"architecture_overview": map[string]any{
			"pattern":        "layered",
			"description":    "Traditional three-tier architecture with presentation, business, and data layers",
			"key_principles": []any{"Separation of concerns", "Scalability", "Maintainability"},
		},
		"components": []any{
			map[string]any{
				"id":               "frontend",
				"name":             "Frontend Application",
				"type":             "frontend",
				"description":      "User interface and presentation layer",
				"responsibilities": []any{"User interaction", "Data presentation", "Client-side validation"},
				"technology":       "React",
				"scalability":      "horizontal",
				"dependencies":     []any{"api-gateway"},
				"visualization_metadata": map[string]any{
					"layer_assignments": map[string]any{
						"system_overview": "core_system",
						"deployment":      "dmz",
					},
					"business_criticality": "high",
					"visual_importance":    8,
					"icon_category":        "frontend",
					"technology_badges":    []any{"react", "javascript"},
					"health_indicators": map[string]any{
						"monitoring_required":  true,
						"performance_critical": true,
						"availability_target":  "99.9%",
					},
				},
			},
			map[string]any{
				"id":               "api-gateway",
				"name":             "API Gateway",
				"type":             "gateway",
				"description":      "Central entry point for all client requests",
				"responsibilities": []any{"Request routing", "Authentication", "Rate limiting"},
				"technology":       "Express.js",
				"scalability":      "horizontal",
				"dependencies":     []any{"backend-service"},
				"visualization_metadata": map[string]any{
					"layer_assignments": map[string]any{
						"system_overview": "core_system",
						"deployment":      "dmz",
					},
					"business_criticality": "high",
					"visual_importance":    7,
					"icon_category":        "backend",
					"technology_badges":    []any{"express", "nodejs"},
					"health_indicators": map[string]any{
						"monitoring_required":  true,
						"performance_critical": true,
						"availability_target":  "99.9%",
					},
				},
			},
			map[string]any{
				"id":               "backend-service",
				"name":             "Backend Service",
				"type":             "service",
				"description":      "Core business logic and data processing",
				"responsibilities": []any{"Business logic", "Data validation", "External integrations"},
				"technology":       "Node.js",
				"scalability":      "horizontal",
				"dependencies":     []any{"database"},
				"visualization_metadata": map[string]any{
					"layer_assignments": map[string]any{
						"system_overview": "core_system",
						"deployment":      "application",
					},
					"business_criticality": "high",
					"visual_importance":    9,
					"icon_category":        "backend",
					"technology_badges":    []any{"nodejs", "javascript"},
					"health_indicators": map[string]any{
						"monitoring_required":  true,
						"performance_critical": true,
						"availability_target":  "99.9%",
					},
				},
			},
			map[string]any{
				"id":               "database",
				"name":             "Primary Database",
				"type":             "database",
				"description":      "Main data storage for application data",
				"responsibilities": []any{"Data persistence", "Data integrity", "Query processing"},
				"technology":       "PostgreSQL",
				"scalability":      "vertical",
				"dependencies":     []any{},
				"visualization_metadata": map[string]any{
					"layer_assignments": map[string]any{
						"system_overview": "data_component",
						"deployment":      "data",
					},
					"business_criticality": "high",
					"visual_importance":    8,
					"icon_category":        "database",
					"technology_badges":    []any{"postgresql", "sql"},
					"health_indicators": map[string]any{
						"monitoring_required":  true,
						"performance_critical": true,
						"availability_target":  "99.99%",
					},
				},
			},
		},
		"connections": []any{
			map[string]any{
				"from_component":  "frontend",
				"to_component":    "api-gateway",
				"connection_type": "http",
				"description":     "User requests and responses",
				"data_flow":       "request_response",
				"visualization_metadata": map[string]any{
					"protocol_display":    "HTTPS/REST",
					"traffic_volume":      "high",
					"latency_requirement": "real_time",
					"security_level":      "high",
					"dependency_strength": "critical",
					"line_style":          "solid",
					"animation_type":      "bidirectional",
				},
			},
			map[string]any{
				"from_component":  "api-gateway",
				"to_component":    "backend-service",
				"connection_type": "http",
				"description":     "API calls to business logic",
				"data_flow":       "request_response",
				"visualization_metadata": map[string]any{
					"protocol_display":    "HTTP/REST",
					"traffic_volume":      "high",
					"latency_requirement": "near_real_time",
					"security_level":      "medium",
					"dependency_strength": "critical",
					"line_style":          "solid",
					"animation_type":      "unidirectional",
				},
			},
			map[string]any{
				"from_component":  "backend-service",
				"to_component":    "database",
				"connection_type": "database",
				"description":     "Data operations",
				"data_flow":       "request_response",
				"visualization_metadata": map[string]any{
					"protocol_display":    "PostgreSQL",
					"traffic_volume":      "medium",
					"latency_requirement": "near_real_time",
					"security_level":      "high",
					"dependency_strength": "critical",
					"line_style":          "solid",
					"animation_type":      "unidirectional",
				},
			},
		},
		"system_overview": map[string]any{
			"business_capabilities": []any{
				map[string]any{
					"capability":     "User Interface Management",
					"components":     []any{"frontend"},
					"business_value": "User experience and engagement",
					"complexity":     "medium",
					"priority":       "high",
				},
				map[string]any{
					"capability":     "API Management",
					"components":     []any{"api-gateway", "backend-service"},
					"business_value": "Secure and scalable API operations",
					"complexity":     "high",
					"priority":       "high",
				},
				map[string]any{
					"capability":     "Data Management",
					"components":     []any{"database"},
					"business_value": "Reliable data storage and retrieval",
					"complexity":     "medium",
					"priority":       "high",
				},
			},
			"core_systems": []any{
				map[string]any{
					"system":      "Web Application Platform",
					"components":  []any{"frontend", "api-gateway", "backend-service"},
					"purpose":     "Primary user-facing application",
					"criticality": "high",
					"user_facing": true,
				},
			},
			"external_integrations": []any{},
			"data_domains": []any{
				map[string]any{
					"domain":      "Application Data",
					"components":  []any{"backend-service", "database"},
					"sensitivity": "high",
					"data_types":  []any{"user_data", "business_data"},
				},
			},
		},
		"deployment_architecture": map[string]any{
			"strategy":      "containers",
			"orchestration": "docker",
			"environments":  []any{"development", "staging", "production"},
			"ci_cd":         "github_actions",
			"infrastructure_zones": []any{
				map[string]any{
					"zone":           "DMZ",
					"components":     []any{"frontend", "api-gateway"},
					"security_level": "high",
					"network_access": "public",
					"zone_type":      "dmz",
				},
				map[string]any{
					"zone":           "Application Tier",
					"components":     []any{"backend-service"},
					"security_level": "medium",
					"network_access": "private",
					"zone_type":      "application",
				},
				map[string]any{
					"zone":           "Data Tier",
					"components":     []any{"database"},
					"security_level": "high",
					"network_access": "isolated",
					"zone_type":      "data",
				},
			},
			"container_clusters": []any{
				map[string]any{
					"cluster":               "Web Frontend Cluster",
					"components":            []any{"frontend"},
					"scaling":               "auto",
					"replicas":              "2-5",
					"resource_requirements": "medium",
				},
				map[string]any{
					"cluster":               "API Services Cluster",
					"components":            []any{"api-gateway", "backend-service"},
					"scaling":               "auto",
					"replicas":              "3-10",
					"resource_requirements": "high",
				},
			},
			"network_topology": map[string]any{
				"load_balancers": []any{
					map[string]any{
						"name":    "Frontend Load Balancer",
						"type":    "application",
						"targets": []any{"frontend"},
					},
				},
				"security_groups": []any{
					map[string]any{
						"name":       "Web Security Group",
						"components": []any{"frontend", "api-gateway"},
						"rules":      []any{"HTTPS inbound", "HTTP outbound"},
					},
				},
			},
		},
		"data_architecture": map[string]any{
			"storage_strategy": "centralized",
			"databases": []any{
				map[string]any{
					"name":       "primary_db",
					"type":       "relational",
					"purpose":    "primary_data",
					"technology": "postgresql",
				},
			},
			"data_flow": "Client requests flow through API gateway to backend service and database",
		},
		"security_architecture": map[string]any{
			"authentication":   "jwt",
			"authorization":    "rbac",
			"data_protection":  []any{"encryption", "access_control"},
			"network_security": []any{"firewall", "ssl_tls"},
		},
		"technology_stack": map[string]any{
			"frontend":       "react",
			"backend":        "node",
			"database":       "postgresql",
			"infrastructure": "aws",
		},
		"confidence_score": 0.8,
	}
}
