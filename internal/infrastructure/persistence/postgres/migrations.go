package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_residents",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_specializations",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_records",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS residents (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name TEXT NOT NULL DEFAULT '',
	license_number TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_residents_email ON residents (email);
`

const migration001Down = `
DROP TABLE IF EXISTS residents;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS specializations (
	id UUID PRIMARY KEY,
	resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
	program_code TEXT NOT NULL,
	program_name TEXT NOT NULL,
	track TEXT NOT NULL,
	start_date DATE NOT NULL,
	planned_end_date DATE NOT NULL,
	duration_years INTEGER NOT NULL,
	current_module_id UUID,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_specializations_resident ON specializations (resident_id);

CREATE TABLE IF NOT EXISTS specialization_modules (
	id UUID PRIMARY KEY,
	specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
	template_module_id TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	completed_internships INTEGER NOT NULL DEFAULT 0,
	total_internships INTEGER NOT NULL DEFAULT 0,
	completed_courses INTEGER NOT NULL DEFAULT 0,
	total_courses INTEGER NOT NULL DEFAULT 0,
	completed_procedures_operator INTEGER NOT NULL DEFAULT 0,
	required_procedures_operator INTEGER NOT NULL DEFAULT 0,
	completed_procedures_assistant INTEGER NOT NULL DEFAULT 0,
	required_procedures_assistant INTEGER NOT NULL DEFAULT 0,
	completed_shift_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	required_shift_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	weekly_shift_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
	completed_self_education_days INTEGER NOT NULL DEFAULT 0,
	required_self_education_days INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_modules_specialization ON specialization_modules (specialization_id);
`

const migration002Down = `
DROP TABLE IF EXISTS specialization_modules;
DROP TABLE IF EXISTS specializations;
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS procedure_records (
	id UUID PRIMARY KEY,
	resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
	specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
	module_id UUID,
	year INTEGER NOT NULL DEFAULT 0,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	sync_status TEXT NOT NULL,
	internship_id UUID,
	code TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL,
	operator_count INTEGER NOT NULL DEFAULT 0,
	assistant_count INTEGER NOT NULL DEFAULT 0,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	performed_at DATE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_procedures_specialization ON procedure_records (specialization_id);
CREATE INDEX IF NOT EXISTS idx_procedures_module ON procedure_records (module_id);

CREATE TABLE IF NOT EXISTS medical_shift_records (
	id UUID PRIMARY KEY,
	resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
	specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
	module_id UUID,
	year INTEGER NOT NULL DEFAULT 0,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	sync_status TEXT NOT NULL,
	hours INTEGER NOT NULL DEFAULT 0,
	minutes INTEGER NOT NULL DEFAULT 0,
	location TEXT NOT NULL DEFAULT '',
	shift_date DATE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_shifts_specialization ON medical_shift_records (specialization_id);
CREATE INDEX IF NOT EXISTS idx_shifts_module ON medical_shift_records (module_id);

CREATE TABLE IF NOT EXISTS internship_records (
	id UUID PRIMARY KEY,
	resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
	specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
	module_id UUID,
	year INTEGER NOT NULL DEFAULT 0,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	sync_status TEXT NOT NULL,
	internship_template_id TEXT NOT NULL DEFAULT '',
	institution_name TEXT NOT NULL DEFAULT '',
	department_name TEXT NOT NULL DEFAULT '',
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_internships_specialization ON internship_records (specialization_id);
CREATE INDEX IF NOT EXISTS idx_internships_module ON internship_records (module_id);

CREATE TABLE IF NOT EXISTS course_records (
	id UUID PRIMARY KEY,
	resident_id UUID NOT NULL REFERENCES residents(id) ON DELETE CASCADE,
	specialization_id UUID NOT NULL REFERENCES specializations(id) ON DELETE CASCADE,
	module_id UUID,
	year INTEGER NOT NULL DEFAULT 0,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	sync_status TEXT NOT NULL,
	course_template_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	completion_date DATE,
	certificate_number TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_courses_specialization ON course_records (specialization_id);
CREATE INDEX IF NOT EXISTS idx_courses_module ON course_records (module_id);
`

const migration003Down = `
DROP TABLE IF EXISTS course_records;
DROP TABLE IF EXISTS internship_records;
DROP TABLE IF EXISTS medical_shift_records;
DROP TABLE IF EXISTS procedure_records;
`
