package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS plans (
    plan_key             TEXT PRIMARY KEY,
    policy               TEXT NOT NULL,
    budget               REAL NOT NULL,
    account_count        INTEGER NOT NULL,
    months               INTEGER NOT NULL,
    computed_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_records (
    plan_key             TEXT NOT NULL REFERENCES plans(plan_key) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    month                INTEGER NOT NULL,
    account              TEXT NOT NULL,
    open_balance         REAL NOT NULL,
    interest             REAL NOT NULL,
    min_due              REAL NOT NULL,
    payment              REAL NOT NULL,
    new_balance          REAL NOT NULL,
    top_priority         INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (plan_key, seq)
);

CREATE TABLE IF NOT EXISTS plan_shortfalls (
    plan_key             TEXT NOT NULL REFERENCES plans(plan_key) ON DELETE CASCADE,
    month                INTEGER NOT NULL,
    baseline             REAL NOT NULL,
    ceiling              REAL NOT NULL,
    PRIMARY KEY (plan_key, month)
);

CREATE INDEX IF NOT EXISTS idx_plan_records_month ON plan_records(plan_key, month);
`
