package agents

import (
	"context"
	"fmt"
	"strings"

	"architect-ai-pipeline/internal/models"
	"architect-ai-pipeline/internal/pkg/logger"
)

// EducationalAgent produces learning content tuned to the user's expertise
// level.
type EducationalAgent struct {
	baseAgent
}

func NewEducationalAgent(model Completer, log *logger.Logger) *EducationalAgent {
	return &EducationalAgent{baseAgent: newBaseAgent(models.StepEducational, model, log)}
}

const educationalSystemPrompt = `You are the Educational Agent for the Agentic Architect platform. Your role is to provide adaptive, comprehensive educational content that helps users understand architectural concepts, patterns, and decisions at their appropriate expertise level.

EDUCATIONAL OBJECTIVES:
1. Adapt content complexity to user expertise level (beginner, intermediate, advanced)
2. Provide clear explanations of architectural concepts and patterns
3. Offer practical examples and real-world applications
4. Create progressive learning paths for skill development
5. Include hands-on exercises and validation checkpoints
6. Connect theoretical concepts to practical implementation

CONTENT ADAPTATION STRATEGY:
- BEGINNER: Focus on fundamental concepts, simple explanations, basic examples
- INTERMEDIATE: Include design patterns, trade-offs, implementation details
- ADVANCED: Cover complex patterns, optimization strategies, architectural evolution

OUTPUT FORMAT:
Return a JSON object with:
{
  "key_concepts": [
    {
      "concept": "architectural_concept_name",
      "definition": "clear_definition_adapted_to_level",
      "importance": "why_this_concept_matters",
      "examples": ["example_1", "example_2"],
      "common_mistakes": ["mistake_1", "mistake_2"],
      "best_practices": ["practice_1", "practice_2"]
    }
  ],
  "pattern_explanations": [
    {
      "pattern": "architecture_pattern_name",
      "explanation": "detailed_explanation_for_user_level",
      "when_to_use": "appropriate_use_cases",
      "implementation_guide": "step_by_step_guidance",
      "code_examples": ["example_1", "example_2"],
      "variations": ["variation_1", "variation_2"]
    }
  ],
  "technology_deep_dives": [
    {
      "technology": "technology_name",
      "overview": "technology_explanation",
      "strengths": ["strength_1", "strength_2"],
      "limitations": ["limitation_1", "limitation_2"],
      "learning_resources": ["resource_1", "resource_2"],
      "hands_on_exercises": ["exercise_1", "exercise_2"]
    }
  ],
  "practical_exercises": [
    {
      "exercise": "exercise_name",
      "objective": "learning_objective",
      "difficulty": "beginner|intermediate|advanced",
      "instructions": "step_by_step_instructions",
      "expected_outcome": "what_user_should_achieve",
      "validation_criteria": ["criterion_1", "criterion_2"]
    }
  ],
  "learning_progression": {
    "current_level_topics": ["topic_1", "topic_2"],
    "next_level_prerequisites": ["prerequisite_1", "prerequisite_2"],
    "skill_development_path": ["step_1", "step_2", "step_3"],
    "estimated_learning_time": "time_estimate"
  },
  "real_world_applications": [
    {
      "scenario": "business_scenario",
      "architecture_application": "how_concepts_apply",
      "case_study": "detailed_case_study",
      "lessons_learned": ["lesson_1", "lesson_2"]
    }
  ],
  "troubleshooting_guide": [
    {
      "problem": "common_problem",
      "symptoms": ["symptom_1", "symptom_2"],
      "root_causes": ["cause_1", "cause_2"],
      "solutions": ["solution_1", "solution_2"],
      "prevention": "how_to_prevent"
    }
  ],
  "further_learning": {
    "recommended_books": ["book_1", "book_2"],
    "online_courses": ["course_1", "course_2"],
    "documentation": ["doc_1", "doc_2"],
    "communities": ["community_1", "community_2"]
  },
  "assessment_questions": [
    {
      "question": "assessment_question",
      "type": "multiple_choice|open_ended|practical",
      "difficulty": "beginner|intermediate|advanced",
      "correct_answer": "answer_or_guidance",
      "explanation": "why_this_is_correct"
    }
  ],
  "confidence_score": 0.0-1.0
}

Create educational content that is engaging, practical, and appropriately challenging for the user's expertise level.`

func (agent *EducationalAgent) Execute(ctx context.Context, state *models.WorkflowState) (map[string]any, error) {
	agent.logger.WithFields(logger.Fields{
		"conversation_id": state.ConversationID,
	}).Info("Generating educational content")

	response, err := agent.queryRaw(ctx, agent.buildPrompt(state), educationalSystemPrompt, state)
	if err != nil {
		agent.logger.WithError(err).WithFields(logger.Fields{
			"conversation_id": state.ConversationID,
		}).Error("Educational content generation failed")
		return fallbackEducationalContent(), nil
	}

	content := agent.parseContent(response)
	content["learning_path"] = learningPath(state.UserProfile.ExpertiseLevel)

	agent.logger.WithFields(logger.Fields{
		"conversation_id":  state.ConversationID,
		"concepts_covered": len(getSlice(content, "key_concepts")),
	}).Info("Educational content generated")

	return content, nil
}

func (agent *EducationalAgent) buildPrompt(state *models.WorkflowState) string {
	expertiseLevel := string(state.UserProfile.ExpertiseLevel)
	if expertiseLevel == "" {
		expertiseLevel = "intermediate"
	}

	promptParts := []string{
		fmt.Sprintf("Create comprehensive educational content for: %s", state.UserQuery),
		fmt.Sprintf("User expertise level: %s", expertiseLevel),
		"",
		"CONTEXT FOR EDUCATIONAL CONTENT:",
	}

	if len(state.ArchitectureDesign) > 0 {
		promptParts = append(promptParts, "ARCHITECTURE TO EXPLAIN:")
		if overview := getMap(state.ArchitectureDesign, "architecture_overview"); len(overview) > 0 {
			promptParts = append(promptParts,
				fmt.Sprintf("Pattern: %s", getStringDefault(overview, "pattern", "Not specified")),
				fmt.Sprintf("Description: %s", getStringDefault(overview, "description", "Not specified")),
			)
		}

		if components := getSlice(state.ArchitectureDesign, "components"); len(components) > 0 {
			promptParts = append(promptParts, "Key Components:")
			if len(components) > 5 {
				components = components[:5]
			}
			for _, entry := range components {
				if comp, ok := entry.(map[string]any); ok {
					promptParts = append(promptParts, fmt.Sprintf("- %s: %s", getString(comp, "name"), getString(comp, "description")))
				}
			}
		}

		if techStack := getMap(state.ArchitectureDesign, "technology_stack"); len(techStack) > 0 {
			promptParts = append(promptParts, "Technologies Used:")
			for _, category := range sortedKeys(techStack) {
				promptParts = append(promptParts, fmt.Sprintf("- %s: %v", category, techStack[category]))
			}
		}
	}

	if decisions := getSlice(state.WhyReasoning, "architectural_decisions"); len(decisions) > 0 {
		promptParts = append(promptParts, "\nKEY DECISIONS TO EXPLAIN:")
		if len(decisions) > 3 {
			decisions = decisions[:3]
		}
		for _, entry := range decisions {
			if decision, ok := entry.(map[string]any); ok {
				promptParts = append(promptParts, fmt.Sprintf("- %s", getString(decision, "decision")))
			}
		}
	}

	if principles := getSlice(state.WhyReasoning, "design_principles"); len(principles) > 0 {
		promptParts = append(promptParts, "\nDESIGN PRINCIPLES TO COVER:")
		if len(principles) > 3 {
			principles = principles[:3]
		}
		for _, entry := range principles {
			if principle, ok := entry.(map[string]any); ok {
				promptParts = append(promptParts, fmt.Sprintf("- %s: %s", getString(principle, "principle"), getString(principle, "importance")))
			}
		}
	}

	if bc := state.BusinessContext; bc != nil {
		promptParts = append(promptParts,
			"",
			"BUSINESS CONTEXT FOR RELEVANCE:",
			fmt.Sprintf("Industry: %s", orNotSpecified(bc.Industry)),
			fmt.Sprintf("Company Size: %s", orNotSpecified(bc.CompanySize)),
		)
	}

	switch state.UserProfile.ExpertiseLevel {
	case models.ExpertiseBeginner:
		promptParts = append(promptParts,
			"",
			"BEGINNER-LEVEL REQUIREMENTS:",
			"- Focus on fundamental concepts and basic explanations",
			"- Use simple analogies and real-world comparisons",
			"- Provide step-by-step guidance",
			"- Include basic terminology definitions",
			"- Offer simple, practical exercises",
		)
	case models.ExpertiseIntermediate:
		promptParts = append(promptParts,
			"",
			"INTERMEDIATE-LEVEL REQUIREMENTS:",
			"- Include design patterns and architectural trade-offs",
			"- Explain implementation details and best practices",
			"- Provide comparative analysis of different approaches",
			"- Include moderate complexity exercises",
			"- Cover common pitfalls and how to avoid them",
		)
	default:
		promptParts = append(promptParts,
			"",
			"ADVANCED-LEVEL REQUIREMENTS:",
			"- Cover complex architectural patterns and optimizations",
			"- Include performance considerations and scalability strategies",
			"- Discuss architectural evolution and migration strategies",
			"- Provide challenging, real-world scenarios",
			"- Include cutting-edge practices and emerging patterns",
		)
	}

	promptParts = append(promptParts,
		"",
		"Please create educational content that:",
		"1. Explains all architectural concepts clearly for the user's level",
		"2. Provides practical examples and hands-on exercises",
		"3. Includes real-world applications and case studies",
		"4. Offers a clear learning progression path",
		"5. Includes assessment questions to validate understanding",
		"",
		"Make the content engaging, practical, and immediately applicable.",
	)

	return strings.Join(promptParts, "\n")
}

func (agent *EducationalAgent) parseContent(response string) map[string]any {
	content, err := ExtractJSON(response)
	if err != nil {
		agent.logger.WithError(err).Warn("Failed to parse educational response")
		return fallbackEducationalContent()
	}

	setDefault(content, "key_concepts", []any{})
	setDefault(content, "pattern_explanations", []any{})
	setDefault(content, "technology_deep_dives", []any{})
	setDefault(content, "practical_exercises", []any{})
	setDefault(content, "learning_progression", map[string]any{})
	setDefault(content, "real_world_applications", []any{})
	setDefault(content, "troubleshooting_guide", []any{})
	setDefault(content, "further_learning", map[string]any{})
	setDefault(content, "assessment_questions", []any{})
	setDefault(content, "confidence_score", 0.9)

	return content
}

// learningPath returns a progression plan keyed to expertise level.
func learningPath(expertiseLevel models.ExpertiseLevel) map[string]any {
	switch expertiseLevel {
	case models.ExpertiseBeginner:
		return map[string]any{
			"current_session_focus": []any{
				"Understanding basic architecture concepts",
				"Learning about layered architecture",
				"Introduction to databases and APIs",
			},
			"next_steps": []any{
				"Practice with simple web application architecture",
				"Learn about REST API design",
				"Understand database relationships",
			},
			"long_term_goals": []any{
				"Master fundamental design patterns",
				"Build confidence with common technologies",
				"Understand system integration basics",
			},
			"estimated_completion_time": "4-6 weeks",
		}
	case models.ExpertiseAdvanced, models.ExpertiseExpert:
		return map[string]any{
			"current_session_focus": []any{
				"Architectural evolution strategies",
				"Performance optimization techniques",
				"Enterprise integration patterns",
			},
			"next_steps": []any{
				"Design for extreme scale",
				"Master distributed systems patterns",
				"Architect for multi-cloud environments",
			},
			"long_term_goals": []any{
				"Become an architecture thought leader",
				"Design innovative solutions",
				"Mentor other architects",
			},
			"estimated_completion_time": "2-3 weeks",
		}
	default:
		return map[string]any{
			"current_session_focus": []any{
				"Advanced architectural patterns",
				"Scalability considerations",
				"Technology trade-offs and selection",
			},
			"next_steps": []any{
				"Implement microservices patterns",
				"Learn about distributed systems",
				"Practice with cloud architectures",
			},
			"long_term_goals": []any{
				"Master complex architectural patterns",
				"Understand performance optimization",
				"Lead architectural decisions",
			},
			"estimated_completion_time": "3-4 weeks",
		}
	}
}

func fallbackEducationalContent() map[string]any {
	return map[string]any{
		"key_concepts": []any{
			map[string]any{
				"concept":          "Layered Architecture",
				"definition":       "An architectural pattern that organizes code into horizontal layers, each with specific responsibilities",
				"importance":       "Provides clear separation of concerns and makes applications easier to understand and maintain",
				"examples":         []any{"Three-tier web applications", "MVC pattern", "Clean Architecture"},
				"common_mistakes":  []any{"Tight coupling between layers", "Business logic in presentation layer"},
				"best_practices":   []any{"Keep layers loosely coupled", "Define clear interfaces", "Avoid circular dependencies"},
			},
			map[string]any{
				"concept":          "API Design",
				"definition":       "The process of creating interfaces that allow different software components to communicate",
				"importance":       "Good API design enables system integration and provides a stable contract for clients",
				"examples":         []any{"REST APIs", "GraphQL", "gRPC services"},
				"common_mistakes":  []any{"Inconsistent naming", "Poor error handling", "Lack of versioning"},
				"best_practices":   []any{"Use consistent naming conventions", "Provide clear documentation", "Implement proper error responses"},
			},
		},
		"pattern_explanations": []any{
			map[string]any{
				"pattern":              "Model-View-Controller (MVC)",
				"explanation":          "Separates application logic into three interconnected components: Model (data), View (presentation), and Controller (business logic)",
				"when_to_use":          "Web applications, desktop applications, any system with user interface",
				"implementation_guide": "1. Define models for data, 2. Create views for presentation, 3. Implement controllers for logic, 4. Connect components with clear interfaces",
				"code_examples":        []any{"Express.js with MVC structure", "Spring Boot MVC", "Django MVT"},
				"variations":           []any{"MVP (Model-View-Presenter)", "MVVM (Model-View-ViewModel)"},
			},
		},
		"technology_deep_dives": []any{
			map[string]any{
				"technology":         "PostgreSQL",
				"overview":           "Advanced open-source relational database with strong ACID compliance and rich feature set",
				"strengths":          []any{"ACID compliance", "Advanced data types", "Excellent performance", "Strong community"},
				"limitations":        []any{"Vertical scaling challenges", "Complex configuration", "Memory usage"},
				"learning_resources": []any{"PostgreSQL official documentation", "PostgreSQL Tutorial", "Database design courses"},
				"hands_on_exercises": []any{"Set up a PostgreSQL database", "Design a normalized schema", "Write complex queries"},
			},
			map[string]any{
				"technology":         "React",
				"overview":           "JavaScript library for building user interfaces with component-based architecture",
				"strengths":          []any{"Component reusability", "Virtual DOM", "Large ecosystem", "Strong community"},
				"limitations":        []any{"Learning curve", "Rapid ecosystem changes", "SEO challenges"},
				"learning_resources": []any{"React official documentation", "React tutorials", "Modern React courses"},
				"hands_on_exercises": []any{"Build a simple React app", "Create reusable components", "Implement state management"},
			},
		},
		"practical_exercises": []any{
			map[string]any{
				"exercise":            "Design a Simple E-commerce Architecture",
				"objective":           "Apply layered architecture principles to design a basic e-commerce system",
				"difficulty":          "intermediate",
				"instructions":        "1. Identify main components (user management, product catalog, orders), 2. Design database schema, 3. Define API endpoints, 4. Create component interaction diagram",
				"expected_outcome":    "Complete architecture diagram with clear component responsibilities",
				"validation_criteria": []any{"All major functions covered", "Clear separation of concerns", "Scalable design"},
			},
		},
		"learning_progression": map[string]any{
			"current_level_topics":     []any{"Basic architecture patterns", "Database design", "API development"},
			"next_level_prerequisites": []any{"Understanding of design patterns", "Experience with databases", "API design knowledge"},
			"skill_development_path":   []any{"Master fundamentals", "Practice with real projects", "Learn advanced patterns", "Gain experience with scale"},
			"estimated_learning_time":  "3-4 weeks",
		},
		"real_world_applications": []any{
			map[string]any{
				"scenario":                 "E-commerce Platform Scaling",
				"architecture_application": "Using microservices to handle different business domains (users, products, orders)",
				"case_study":               "Amazon's evolution from monolith to microservices enabled massive scale and team autonomy",
				"lessons_learned":          []any{"Start simple, evolve complexity", "Domain boundaries are crucial", "Operational complexity increases"},
			},
		},
		"troubleshooting_guide": []any{
			map[string]any{
				"problem":     "Database Performance Issues",
				"symptoms":    []any{"Slow query responses", "High CPU usage", "Connection timeouts"},
				"root_causes": []any{"Missing indexes", "Inefficient queries", "Connection pool exhaustion"},
				"solutions":   []any{"Add appropriate indexes", "Optimize query structure", "Tune connection pool settings"},
				"prevention":  "Regular performance monitoring and query analysis",
			},
		},
		"further_learning": map[string]any{
			"recommended_books": []any{
				"Clean Architecture by Robert Martin",
				"Designing Data-Intensive Applications by Martin Kleppmann",
				"Building Microservices by Sam Newman",
			},
			"online_courses": []any{
				"System Design Interview courses",
				"Database design fundamentals",
				"Cloud architecture patterns",
			},
			"documentation": []any{
				"AWS Architecture Center",
				"Google Cloud Architecture Framework",
				"Microsoft Azure Architecture Center",
			},
			"communities": []any{
				"Stack Overflow",
				"Reddit r/softwarearchitecture",
				"Architecture decision records community",
			},
		},
		"assessment_questions": []any{
			map[string]any{
				"question":       "What are the main benefits of using a layered architecture pattern?",
				"type":           "open_ended",
				"difficulty":     "beginner",
				"correct_answer": "Separation of concerns, maintainability, testability, clear structure",
				"explanation":    "Layered architecture provides clear separation between different aspects of the application, making it easier to understand, maintain, and test",
			},
			map[string]any{
				"question":       "When would you choose PostgreSQL over MongoDB for a new project?",
				"type":           "open_ended",
				"difficulty":     "intermediate",
				"correct_answer": "When you need ACID compliance, complex relationships, or strong consistency",
				"explanation":    "PostgreSQL is better for applications requiring strong consistency, complex queries, and relational data structures",
			},
		},
		"learning_path": map[string]any{
			"current_session_focus": []any{
				"Understanding basic architecture concepts",
				"Learning about layered architecture",
				"Introduction to databases and APIs",
			},
			"next_steps": []any{
				"Practice with simple web application architecture",
				"Learn about REST API design",
				"Understand database relationships",
			},
			"long_term_goals": []any{
				"Master fundamental design patterns",
				"Build confidence with common technologies",
				"Understand system integration basics",
			},
			"estimated_completion_time": "3-4 weeks",
		},
		"confidence_score": 0.85,
	}
}
