package catalog

import "hospital/internal/access/models"

var (
	everyone       = []models.Role{models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RoleReceptionist}
	clinicalStaff  = []models.Role{models.RoleAdmin, models.RoleDoctor, models.RoleNurse}
	doctorsOnly    = []models.Role{models.RoleAdmin, models.RoleDoctor}
	nursesOnly     = []models.Role{models.RoleAdmin, models.RoleNurse}
	administrators = []models.Role{models.RoleAdmin}
)

// Category names used for menu grouping.
const (
	CategoryPrincipal      = "principal"
	CategoryClinical       = "clinico"
	CategoryAdministrative = "administrativo"
	CategoryReports        = "reportes"
)

// Default returns the hospital catalog.
func Default() *Catalog {
	return MustNew(hospitalModules()...)
}

func hospitalModules() []Module {
	return []Module{
		{
			ID: "dashboard", Name: "Dashboard", Path: "/", Icon: "LayoutDashboard",
			Description: "Panel principal con resumen de actividades",
			Color:       "linear-gradient(135deg, #22c55e, #16a34a)",
			Category:    CategoryPrincipal, DefaultRoles: everyone,
		},
		{
			ID: "citas", Name: "Citas", Path: "/citas", Icon: "Clock",
			Description: "Gestión de citas médicas",
			Color:       "linear-gradient(135deg, #3b82f6, #2563eb)",
			Category:    CategoryPrincipal, DefaultRoles: everyone,
			Resources: []string{"appointments", "patients", "doctors"},
		},
		{
			ID: "calendario", Name: "Calendario", Path: "/calendario", Icon: "Calendar",
			Description: "Vista de calendario de citas",
			Color:       "linear-gradient(135deg, #8b5cf6, #7c3aed)",
			Category:    CategoryPrincipal, DefaultRoles: everyone,
		},
		{
			ID: "pacientes", Name: "Pacientes", Path: "/pacientes", Icon: "Users",
			Description: "Registro y gestión de pacientes",
			Color:       "linear-gradient(135deg, #06b6d4, #0891b2)",
			Category:    CategoryPrincipal, DefaultRoles: everyone,
			Resources: []string{"patients"},
		},
		{
			ID: "doctores", Name: "Doctores", Path: "/doctores", Icon: "Stethoscope",
			Description: "Directorio de médicos",
			Color:       "linear-gradient(135deg, #10b981, #059669)",
			Category:    CategoryPrincipal, DefaultRoles: everyone,
		},
		{
			ID: "historia-clinica", Name: "Historia Clínica", Path: "/historia-clinica", Icon: "FileText",
			Description: "Historiales médicos de pacientes",
			Color:       "linear-gradient(135deg, #f59e0b, #d97706)",
			Category:    CategoryClinical, DefaultRoles: clinicalStaff,
			Resources: []string{"patients", "doctors", "clinical-history", "allergies", "chronic-diseases", "evolutions"},
		},
		{
			ID: "notas-medicas", Name: "Notas Médicas", Path: "/notas-medicas", Icon: "ClipboardList",
			Description: "Notas y observaciones médicas",
			Color:       "linear-gradient(135deg, #ec4899, #db2777)",
			Category:    CategoryClinical, DefaultRoles: doctorsOnly,
		},
		{
			ID: "recetas", Name: "Prescripciones", Path: "/prescripciones", Icon: "Pill",
			Description: "Recetas y medicamentos",
			Color:       "linear-gradient(135deg, #ef4444, #dc2626)",
			Category:    CategoryClinical, DefaultRoles: doctorsOnly,
			Resources: []string{"prescriptions", "patients", "doctors"},
		},
		{
			ID: "examenes", Name: "Laboratorio", Path: "/laboratorio", Icon: "FlaskConical",
			Description: "Exámenes de laboratorio",
			Color:       "linear-gradient(135deg, #14b8a6, #0d9488)",
			Category:    CategoryClinical, DefaultRoles: doctorsOnly,
			Resources: []string{"lab-exams", "patients", "doctors"},
		},
		{
			ID: "triage", Name: "Triaje", Path: "/triaje", Icon: "HeartPulse",
			Description: "Evaluación inicial de pacientes",
			Color:       "linear-gradient(135deg, #f43f5e, #e11d48)",
			Category:    CategoryClinical, DefaultRoles: nursesOnly,
			Resources: []string{"triage", "patients"},
		},
		{
			ID: "referencias", Name: "Derivaciones", Path: "/derivaciones", Icon: "Send",
			Description: "Referencias a especialistas",
			Color:       "linear-gradient(135deg, #6366f1, #4f46e5)",
			Category:    CategoryClinical, DefaultRoles: doctorsOnly,
			Resources: []string{"referrals", "patients", "doctors"},
		},
		{
			ID: "archivos", Name: "Archivos Clínicos", Path: "/archivos-clinicos", Icon: "FolderOpen",
			Description: "Documentos y archivos médicos",
			Color:       "linear-gradient(135deg, #84cc16, #65a30d)",
			Category:    CategoryAdministrative, DefaultRoles: administrators,
			Resources: []string{"clinical-files", "patients"},
		},
		{
			ID: "hospitalizacion", Name: "Hospitalización", Path: "/hospitalizacion", Icon: "Building2",
			Description: "Gestión de pacientes hospitalizados",
			Color:       "linear-gradient(135deg, #0ea5e9, #0284c7)",
			Category:    CategoryAdministrative, DefaultRoles: nursesOnly,
			Resources: []string{"hospitalizations", "beds", "patients"},
		},
		{
			ID: "gestion-camas", Name: "Gestión de Camas", Path: "/gestion-camas", Icon: "BedDouble",
			Description: "Administración de camas hospitalarias",
			Color:       "linear-gradient(135deg, #a855f7, #9333ea)",
			Category:    CategoryAdministrative, DefaultRoles: nursesOnly,
		},
		{
			ID: "enfermeria", Name: "Enfermería", Path: "/enfermeria", Icon: "HeartPulse",
			Description: "Signos vitales y observaciones",
			Color:       "linear-gradient(135deg, #f472b6, #ec4899)",
			Category:    CategoryClinical, DefaultRoles: nursesOnly,
			Resources: []string{"vital-signs", "nursing-observations", "patients"},
		},
		{
			ID: "reportes", Name: "Reportes", Path: "/reportes", Icon: "BarChart3",
			Description: "Estadísticas y reportes",
			Color:       "linear-gradient(135deg, #64748b, #475569)",
			Category:    CategoryReports, DefaultRoles: doctorsOnly,
			Resources: []string{"reports"},
		},
		{
			ID: "permisos", Name: "Gestión de Accesos", Path: "/configuracion/accesos", Icon: "Shield",
			Description: "Configurar permisos de usuarios y roles",
			Color:       "linear-gradient(135deg, #ef4444, #dc2626)",
			Category:    CategoryAdministrative, DefaultRoles: administrators,
			Resources: []string{"permissions"},
		},
	}
}
